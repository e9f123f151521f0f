package services

import (
	"sync"
	"time"

	"pizzapoint/server/internal/models"
	"pizzapoint/server/internal/utils"
)

// OrderSlot - локальный персистентный key-value слот: один ключ хранит
// JSON-сериализованную коллекцию заказов. Читается при загрузке стора,
// перезаписывается после каждой мутации.
type OrderSlot interface {
	Save(orders []models.Order) error
	Load() ([]models.Order, error)
}

const orderSlotKey = "orders:snapshot"

// TTL слота с запасом: ретеншн заказов (24ч) обеспечивает прюнинг стора,
// ключ держим дольше, чтобы пережить простои.
const orderSlotTTL = 7 * 24 * time.Hour

// RedisOrderSlot хранит коллекцию заказов одним Redis ключом
type RedisOrderSlot struct {
	redisUtil *utils.RedisClient
}

// NewRedisOrderSlot создает слот поверх Redis
func NewRedisOrderSlot(redisUtil *utils.RedisClient) *RedisOrderSlot {
	return &RedisOrderSlot{redisUtil: redisUtil}
}

// Save перезаписывает слот целиком
func (s *RedisOrderSlot) Save(orders []models.Order) error {
	return s.redisUtil.Set(orderSlotKey, orders, orderSlotTTL)
}

// Load читает слот. Пустой или отсутствующий ключ - пустая коллекция, не ошибка.
func (s *RedisOrderSlot) Load() ([]models.Order, error) {
	var orders []models.Order
	if err := s.redisUtil.GetJSON(orderSlotKey, &orders); err != nil {
		if utils.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return orders, nil
}

// MemoryOrderSlot - слот в памяти процесса: работа без Redis и тесты
type MemoryOrderSlot struct {
	mu     sync.Mutex
	orders []models.Order
}

// NewMemoryOrderSlot создает слот в памяти
func NewMemoryOrderSlot() *MemoryOrderSlot {
	return &MemoryOrderSlot{}
}

// Save перезаписывает слот целиком
func (s *MemoryOrderSlot) Save(orders []models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = make([]models.Order, len(orders))
	copy(s.orders, orders)
	return nil
}

// Load читает слот
func (s *MemoryOrderSlot) Load() ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return orders, nil
}
