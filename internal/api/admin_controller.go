package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pizzapoint/server/internal/models"
	"pizzapoint/server/internal/services"
)

// AdminController - API админ-консоли: лента заказов, смена статусов, отчеты
type AdminController struct {
	store   *services.OrderStore
	reports *services.ReportService
}

func NewAdminController(store *services.OrderStore, reports *services.ReportService) *AdminController {
	return &AdminController{store: store, reports: reports}
}

// GetOrders возвращает заказы стора, опционально отфильтрованные по статусу
func (ac *AdminController) GetOrders(c *gin.Context) {
	status := c.Query("status")

	var orders []models.Order
	if status == "" || status == "all" {
		orders = ac.store.Orders()
	} else {
		orders = ac.store.OrdersByStatus(status)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder возвращает один заказ по ID
func (ac *AdminController) GetOrder(c *gin.Context) {
	order, ok := ac.store.GetOrder(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type adminStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus двигает заказ по жизненному циклу
// (pending → preparing → ready → completed)
func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	var req adminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status is required"})
		return
	}

	orderID := c.Param("id")
	if !ac.store.UpdateOrderStatus(orderID, req.Status) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	order, _ := ac.store.GetOrder(orderID)
	c.JSON(http.StatusOK, order)
}

// GetDashboard - сводка для главной панели: счетчики по статусам и выручка за сегодня
func (ac *AdminController) GetDashboard(c *gin.Context) {
	report := ac.reports.BuildReport(services.PeriodToday)

	c.JSON(http.StatusOK, gin.H{
		"pending":       report.ByStatus[models.StatusPending],
		"preparing":     report.ByStatus[models.StatusPreparing],
		"ready":         report.ByStatus[models.StatusReady],
		"completed":     report.ByStatus[models.StatusCompleted],
		"todayOrders":   report.TotalOrders,
		"todayRevenue":  report.TotalRevenue,
		"avgOrderValue": report.AvgOrderValue,
	})
}

// GetReport - отчет о продажах за период (?period=today|week|month)
func (ac *AdminController) GetReport(c *gin.Context) {
	period := c.DefaultQuery("period", services.PeriodToday)
	c.JSON(http.StatusOK, ac.reports.BuildReport(period))
}
