package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pizzapoint/server/internal/models"
)

// GetMenu возвращает меню, сгруппированное по категориям
func GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": models.Categories,
		"menu":       models.GetMenuByCategory(),
	})
}

// GetMenuItemByID возвращает одну позицию меню
func GetMenuItemByID(c *gin.Context) {
	item, exists := models.GetMenuItem(c.Param("id"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}
