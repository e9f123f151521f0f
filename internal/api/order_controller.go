package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pizzapoint/server/internal/models"
	"pizzapoint/server/internal/utils"
)

// OrderController - CRUD API заказов поверх Postgres (документное хранилище)
type OrderController struct {
	db        *gorm.DB
	redisUtil *utils.RedisClient
}

func NewOrderController(db *gorm.DB, redisUtil *utils.RedisClient) *OrderController {
	return &OrderController{db: db, redisUtil: redisUtil}
}

type createOrderRequest struct {
	Name      string                `json:"name"`
	Phone     string                `json:"phone"`
	Address   string                `json:"address"`
	OrderType string                `json:"orderType"`
	Items     []models.CartLineItem `json:"items"`
	Total     *float64              `json:"total"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// GetOrders возвращает все заказы, новые первыми
func (oc *OrderController) GetOrders(c *gin.Context) {
	if oc.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
		return
	}

	var records []models.OrderRecord
	if err := oc.db.Order("created_at DESC").Find(&records).Error; err != nil {
		log.Printf("❌ Ошибка загрузки заказов из БД: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load orders"})
		return
	}

	orders := make([]gin.H, 0, len(records))
	for _, rec := range records {
		items, err := rec.DecodeItems()
		if err != nil {
			log.Printf("⚠️ Заказ %s: битый JSON позиций, пропускаем: %v", rec.ID, err)
			items = nil
		}
		orders = append(orders, orderResponse(rec, items))
	}

	c.JSON(http.StatusOK, orders)
}

// CreateOrder принимает новый заказ из витрины
func (oc *OrderController) CreateOrder(c *gin.Context) {
	if oc.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid data", "details": err.Error()})
		return
	}

	// Валидация обязательных полей
	if req.Name == "" || req.Phone == "" || len(req.Items) == 0 || req.Total == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide all required fields"})
		return
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDelivery
	}

	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid items payload"})
		return
	}

	record := models.OrderRecord{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		OrderType: orderType,
		Items:     string(itemsJSON),
		Total:     *req.Total,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}

	if err := oc.db.Create(&record).Error; err != nil {
		log.Printf("❌ Ошибка сохранения заказа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order"})
		return
	}

	// Счетчики в Redis одной пачкой (фоном, заказ уже сохранен)
	go oc.bumpCounters(record.ID)

	log.Printf("✅ Заказ %s создан: %s, %s, ₨%.0f", record.ID, record.Name, record.OrderType, record.Total)
	c.JSON(http.StatusCreated, orderResponse(record, req.Items))
}

// UpdateOrderStatus меняет статус заказа
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	if oc.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
		return
	}

	orderID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status is required"})
		return
	}

	var record models.OrderRecord
	if err := oc.db.First(&record, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		log.Printf("❌ Ошибка поиска заказа %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load order"})
		return
	}

	record.Status = req.Status
	if err := oc.db.Model(&record).Update("status", req.Status).Error; err != nil {
		log.Printf("❌ Ошибка обновления статуса заказа %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update order"})
		return
	}

	items, _ := record.DecodeItems()
	log.Printf("🔄 Заказ %s: статус → %s", orderID, req.Status)
	c.JSON(http.StatusOK, orderResponse(record, items))
}

// bumpCounters инкрементит операционные счетчики в Redis
func (oc *OrderController) bumpCounters(orderID string) {
	if oc.redisUtil == nil {
		return
	}

	// Pipeline - пачка команд одним сетевым вызовом
	pipe := oc.redisUtil.Pipeline()
	ctx := oc.redisUtil.Context()
	todayKey := "orders:today:" + time.Now().Format("2006-01-02")

	pipe.Incr(ctx, "orders:total")
	pipe.Incr(ctx, todayKey)
	pipe.Expire(ctx, todayKey, 48*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("⚠️ Pipeline error при учете заказа %s: %v", orderID, err)
	}
}

// orderResponse - JSON-представление заказа в формате витрины
func orderResponse(rec models.OrderRecord, items []models.CartLineItem) gin.H {
	return gin.H{
		"_id":       rec.ID,
		"name":      rec.Name,
		"phone":     rec.Phone,
		"address":   rec.Address,
		"orderType": rec.OrderType,
		"items":     items,
		"total":     rec.Total,
		"status":    rec.Status,
		"createdAt": rec.CreatedAt.Format(time.RFC3339),
	}
}
