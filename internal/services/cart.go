package services

import (
	"sync"

	"github.com/google/uuid"
	"pizzapoint/server/internal/models"
)

// Cart - корзина одной сессии: упорядоченный список строк (порядок вставки =
// порядок отображения) + флаг видимости панели корзины.
//
// Две добавки с одинаковым кортежем идентичности (ID позиции, размер,
// нормализованный набор топпингов) сливаются в одну строку, а не плодят
// дубликаты. Итог строки пересчитывается при каждой мутации.
type Cart struct {
	mu     sync.Mutex
	items  []models.CartLineItem
	isOpen bool
}

// CartView - снимок корзины для сериализации в ответ API
type CartView struct {
	Items     []models.CartLineItem `json:"items"`
	IsOpen    bool                  `json:"isOpen"`
	Total     float64               `json:"total"`
	ItemCount int                   `json:"itemCount"`
}

// NewCart создает пустую корзину
func NewCart() *Cart {
	return &Cart{items: make([]models.CartLineItem, 0)}
}

// AddItem добавляет позицию в корзину. Если строка с таким же кортежем
// идентичности уже есть - наращивает ее количество и пересчитывает итог,
// иначе добавляет новую строку в конец. Побочный эффект: открывает корзину,
// чтобы UI сразу ее показал.
//
// quantity <= 0 - no-op: валидация количества лежит на вызывающем.
func (c *Cart) AddItem(item models.MenuItem, quantity int, size string, toppings []string) {
	if quantity <= 0 {
		return
	}

	normalized := models.NormalizeToppings(toppings)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].SameIdentity(item.ID, size, normalized) {
			newQuantity := c.items[i].Quantity + quantity
			c.items[i].Quantity = newQuantity
			c.items[i].TotalPrice = ComputeLineTotal(item, newQuantity, size, normalized)
			c.isOpen = true
			return
		}
	}

	c.items = append(c.items, models.CartLineItem{
		MenuItem:         item,
		LineID:           uuid.New().String(),
		Quantity:         quantity,
		SelectedSize:     size,
		SelectedToppings: normalized,
		TotalPrice:       ComputeLineTotal(item, quantity, size, normalized),
	})
	c.isOpen = true
}

// findLine ищет строку: сначала точное совпадение по LineID, иначе первая
// строка с таким ID позиции каталога. Правило одиночного совпадения: удаление
// и смена количества задевают ровно одну строку, даже когда в корзине
// несколько кастомизированных вариантов одной позиции.
func (c *Cart) findLine(id string) int {
	for i := range c.items {
		if c.items[i].LineID == id {
			return i
		}
	}
	for i := range c.items {
		if c.items[i].MenuItem.ID == id {
			return i
		}
	}
	return -1
}

// RemoveItem удаляет ровно одну строку корзины.
// Несуществующий id - no-op.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *Cart) removeLocked(id string) {
	idx := c.findLine(id)
	if idx < 0 {
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}

// UpdateQuantity меняет количество строки и пересчитывает итог по ее
// текущим размеру и топпингам. quantity <= 0 эквивалентно RemoveItem.
// Несуществующий id - no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(id)
		return
	}
	idx := c.findLine(id)
	if idx < 0 {
		return
	}
	line := &c.items[idx]
	line.Quantity = quantity
	line.TotalPrice = ComputeLineTotal(line.MenuItem, quantity, line.SelectedSize, line.SelectedToppings)
}

// Clear очищает корзину. Флаг видимости не трогаем.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = c.items[:0]
	c.mu.Unlock()
}

// ToggleOpen переключает видимость панели корзины
func (c *Cart) ToggleOpen() {
	c.mu.Lock()
	c.isOpen = !c.isOpen
	c.mu.Unlock()
}

// Open открывает панель корзины
func (c *Cart) Open() {
	c.mu.Lock()
	c.isOpen = true
	c.mu.Unlock()
}

// Close закрывает панель корзины
func (c *Cart) Close() {
	c.mu.Lock()
	c.isOpen = false
	c.mu.Unlock()
}

// Total - сумма итогов всех строк. Считается на чтении, не кэшируется,
// чтобы не разъезжаться с состоянием строк.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Cart) totalLocked() float64 {
	var total float64
	for _, item := range c.items {
		total += item.TotalPrice
	}
	return total
}

// ItemCount - суммарное количество единиц в корзине
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemCountLocked()
}

func (c *Cart) itemCountLocked() int {
	var count int
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Snapshot возвращает копию состояния корзины с производными итогами
func (c *Cart) Snapshot() CartView {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.CartLineItem, len(c.items))
	copy(items, c.items)
	return CartView{
		Items:     items,
		IsOpen:    c.isOpen,
		Total:     c.totalLocked(),
		ItemCount: c.itemCountLocked(),
	}
}

// CartService раздает корзины по ключу сессии.
// Корзина живет только в памяти процесса, переживать рестарт ей не нужно.
type CartService struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewCartService создает новый сервис корзин
func NewCartService() *CartService {
	return &CartService{carts: make(map[string]*Cart)}
}

// GetCart возвращает корзину сессии, создавая ее при первом обращении
func (cs *CartService) GetCart(sessionID string) *Cart {
	cs.mu.RLock()
	cart, ok := cs.carts[sessionID]
	cs.mu.RUnlock()
	if ok {
		return cart
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cart, ok = cs.carts[sessionID]; ok {
		return cart
	}
	cart = NewCart()
	cs.carts[sessionID] = cart
	return cart
}

// DropCart выбрасывает корзину сессии
func (cs *CartService) DropCart(sessionID string) {
	cs.mu.Lock()
	delete(cs.carts, sessionID)
	cs.mu.Unlock()
}
