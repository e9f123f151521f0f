package api

import (
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pizzapoint/server/internal/models"
	"pizzapoint/server/internal/services"
)

// CartController - API корзины витрины. Корзина привязана к сессии клиента
// через заголовок X-Session-ID (или cookie cart_session).
type CartController struct {
	carts *services.CartService
	store *services.OrderStore
}

func NewCartController(carts *services.CartService, store *services.OrderStore) *CartController {
	return &CartController{carts: carts, store: store}
}

type addItemRequest struct {
	ItemID   string   `json:"itemId"`
	Quantity int      `json:"quantity"`
	Size     string   `json:"size"`
	Toppings []string `json:"toppings"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type checkoutRequest struct {
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	OrderType    string `json:"orderType"`
}

// sessionID извлекает идентификатор сессии корзины. Если его нет -
// генерируем новый и отдаем клиенту в cookie.
func (cc *CartController) sessionID(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	if sid, err := c.Cookie("cart_session"); err == nil && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	c.SetCookie("cart_session", sid, 7*24*3600, "/", "", false, true)
	return sid
}

// GetCart возвращает снимок корзины сессии
func (cc *CartController) GetCart(c *gin.Context) {
	cart := cc.carts.GetCart(cc.sessionID(c))
	c.JSON(http.StatusOK, cart.Snapshot())
}

// AddItem добавляет позицию меню в корзину
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid data", "details": err.Error()})
		return
	}

	item, exists := models.GetMenuItem(req.ItemID)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Item not found in menu"})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	cart := cc.carts.GetCart(cc.sessionID(c))
	cart.AddItem(item, quantity, req.Size, req.Toppings)
	c.JSON(http.StatusOK, cart.Snapshot())
}

// UpdateItemQuantity меняет количество позиции. Ноль и меньше - удаление.
func (cc *CartController) UpdateItemQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "quantity is required"})
		return
	}

	cart := cc.carts.GetCart(cc.sessionID(c))
	cart.UpdateQuantity(c.Param("id"), *req.Quantity)
	c.JSON(http.StatusOK, cart.Snapshot())
}

// RemoveItem удаляет позицию из корзины
func (cc *CartController) RemoveItem(c *gin.Context) {
	cart := cc.carts.GetCart(cc.sessionID(c))
	cart.RemoveItem(c.Param("id"))
	c.JSON(http.StatusOK, cart.Snapshot())
}

// ToggleCart переключает видимость панели корзины
func (cc *CartController) ToggleCart(c *gin.Context) {
	cart := cc.carts.GetCart(cc.sessionID(c))
	cart.ToggleOpen()
	c.JSON(http.StatusOK, cart.Snapshot())
}

// CloseCart скрывает панель корзины
func (cc *CartController) CloseCart(c *gin.Context) {
	cart := cc.carts.GetCart(cc.sessionID(c))
	cart.Close()
	c.JSON(http.StatusOK, cart.Snapshot())
}

// Checkout оформляет заказ из корзины сессии
func (cc *CartController) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid data", "details": err.Error()})
		return
	}

	sid := cc.sessionID(c)
	cart := cc.carts.GetCart(sid)
	snapshot := cart.Snapshot()

	// Валидация ДО любых мутаций: при ошибке корзина не трогается
	if req.CustomerName == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill in all required fields"})
		return
	}
	if len(snapshot.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
		return
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDelivery
	}

	// Полный ID + короткий номер для кухни и чеков
	fullID := uuid.New().String()
	displayID := lastFourDigits(fullID)

	order := models.Order{
		ID:        fullID,
		DisplayID: displayID,
		Items:     snapshot.Items,
		Customer: models.Customer{
			Name:    req.CustomerName,
			Phone:   req.Phone,
			Address: req.Address,
		},
		OrderType: orderType,
		Status:    models.StatusPending,
		Total:     snapshot.Total,
		CreatedAt: time.Now(),
	}

	cc.store.AddOrder(order)
	cart.Clear()

	log.Printf("✅ Заказ #%s оформлен (%s, %d позиций, ₨%.0f)",
		displayID, orderType, len(order.Items), order.Total)

	c.JSON(http.StatusCreated, gin.H{
		"orderId":   order.ID,
		"displayId": order.DisplayID,
		"total":     order.Total,
		"status":    order.Status,
	})
}

var digitsRe = regexp.MustCompile(`\d+`)

// lastFourDigits извлекает последние 4 цифры из UUID для короткого номера заказа
func lastFourDigits(id string) string {
	digits := strings.Join(digitsRe.FindAllString(id, -1), "")
	if len(digits) < 4 {
		return "0000" // Fallback если цифр мало
	}
	return digits[len(digits)-4:]
}
