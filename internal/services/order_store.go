package services

import (
	"context"
	"log"
	"sync"
	"time"

	"pizzapoint/server/internal/models"
)

// OrderNotifier получает событие о новом заказе (звук, тост, внешние
// уведомления). Для корректности стора уведомления не обязательны.
type OrderNotifier interface {
	NotifyNewOrder(order models.Order)
}

// OrderStore - авторитетная для этого клиента коллекция размещенных заказов.
//
// Два источника истины: локальный персистентный слот и удаленный Order API.
// Правило приоритета простое: удаленная сторона побеждает при успешном
// непустом fetch, иначе откатываемся на локальный слот. Слияния и разрешения
// конфликтов нет - расхождение это принятое ограничение.
//
// Каждая мутация: фильтр по окну хранения -> запись слота -> асинхронный
// best-effort push в удаленный API (сбой пишется в лог и не откатывает
// локальное изменение).
type OrderStore struct {
	mu       sync.RWMutex
	orders   []models.Order
	slot     OrderSlot     // может быть nil (работаем только в памяти)
	remote   RemoteOrders  // может быть nil (работаем только локально)
	notifier OrderNotifier // может быть nil

	syncInterval time.Duration
	now          func() time.Time // подменяется в тестах

	stop     chan struct{}
	stopOnce sync.Once
}

// NewOrderStore создает стор заказов. Любой из коллабораторов может быть nil -
// стор деградирует до соответствующего режима, но остается корректным.
func NewOrderStore(slot OrderSlot, remote RemoteOrders, notifier OrderNotifier, syncInterval time.Duration) *OrderStore {
	if syncInterval <= 0 {
		syncInterval = time.Hour
	}
	return &OrderStore{
		orders:       make([]models.Order, 0),
		slot:         slot,
		remote:       remote,
		notifier:     notifier,
		syncInterval: syncInterval,
		now:          time.Now,
		stop:         make(chan struct{}),
	}
}

// Load инициализирует стор: сначала пытаемся взять коллекцию из удаленного
// API; при успехе и непустом результате он становится истиной и
// перезаписывает слот. При сбое или пустом ответе откатываемся на локальный
// слот, отфильтрованный по окну хранения. Сбой сети никогда не мешает
// инициализации - Load не возвращает ошибку.
func (s *OrderStore) Load(ctx context.Context) {
	if s.remote != nil {
		remoteOrders, err := s.remote.FetchOrders(ctx)
		if err != nil {
			log.Printf("⚠️ OrderStore.Load: удаленный API недоступен: %v (fallback на локальный слот)", err)
		} else if len(remoteOrders) > 0 {
			s.mu.Lock()
			s.orders = remoteOrders
			s.persistLocked()
			s.mu.Unlock()
			log.Printf("✅ OrderStore.Load: загружено %d заказов из удаленного API", len(remoteOrders))
			return
		}
	}

	// Fallback: локальный слот с фильтрацией просроченных
	if s.slot == nil {
		return
	}
	stored, err := s.slot.Load()
	if err != nil {
		log.Printf("⚠️ OrderStore.Load: ошибка чтения локального слота: %v (стартуем пустыми)", err)
		return
	}

	s.mu.Lock()
	s.orders = stored
	pruned := s.pruneLocked()
	s.mu.Unlock()

	if pruned > 0 {
		log.Printf("🧹 OrderStore.Load: вычищено %d просроченных заказов из слота", pruned)
	}
	log.Printf("✅ OrderStore.Load: загружено %d заказов из локального слота", len(stored)-pruned)
}

// Orders возвращает копию коллекции заказов
func (s *OrderStore) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

// OrdersByStatus возвращает заказы с заданным статусом
func (s *OrderStore) OrdersByStatus(status string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Order, 0)
	for _, order := range s.orders {
		if order.Status == status {
			result = append(result, order)
		}
	}
	return result
}

// GetOrder ищет заказ по ID
func (s *OrderStore) GetOrder(orderID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.orders {
		if order.ID == orderID {
			return order, true
		}
	}
	return models.Order{}, false
}

// AddOrder добавляет заказ: локально (фильтр по окну хранения + запись
// слота), затем асинхронный push в удаленный API и уведомления. Сбой
// репликации или уведомлений не влияет на локальный результат.
func (s *OrderStore) AddOrder(order models.Order) {
	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.pruneLocked()
	s.persistLocked()
	s.mu.Unlock()

	// Best-effort репликация в удаленный API (fire-and-forget)
	if s.remote != nil {
		go func(o models.Order) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.remote.CreateOrder(ctx, o); err != nil {
				log.Printf("⚠️ OrderStore: не удалось отправить заказ %s в удаленный API: %v", o.ID, err)
			}
		}(order)
	}

	if s.notifier != nil {
		s.notifier.NotifyNewOrder(order)
	}
}

// UpdateOrderStatus меняет статус заказа. Неизвестный ID - no-op, не ошибка.
// Статус пишется как есть: жесткой машины переходов здесь нет, админка
// вправе выставить любое значение в любой момент (см. DESIGN.md).
func (s *OrderStore) UpdateOrderStatus(orderID, status string) bool {
	s.mu.Lock()
	found := false
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		log.Printf("⚠️ OrderStore: заказ %s не найден, статус %s не применен", orderID, status)
		return false
	}
	s.pruneLocked()
	s.persistLocked()
	s.mu.Unlock()

	if s.remote != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.remote.UpdateOrderStatus(ctx, orderID, status); err != nil {
				log.Printf("⚠️ OrderStore: не удалось отправить статус заказа %s в удаленный API: %v", orderID, err)
			}
		}()
	}
	return true
}

// Sync - один проход периодической синхронизации: прюнинг локального
// состояния, затем re-fetch из удаленного API. Непустой ответ полностью
// замещает локальное состояние (last-fetch-wins, без слияния).
func (s *OrderStore) Sync(ctx context.Context) {
	s.mu.Lock()
	pruned := s.pruneLocked()
	if pruned > 0 {
		s.persistLocked()
		log.Printf("🧹 OrderStore.Sync: вычищено %d просроченных заказов", pruned)
	}
	s.mu.Unlock()

	if s.remote == nil {
		return
	}
	remoteOrders, err := s.remote.FetchOrders(ctx)
	if err != nil {
		log.Printf("⚠️ OrderStore.Sync: удаленный API недоступен: %v (остаемся на локальном состоянии)", err)
		return
	}
	if len(remoteOrders) == 0 {
		return
	}

	s.mu.Lock()
	s.orders = remoteOrders
	s.persistLocked()
	s.mu.Unlock()
	log.Printf("🔄 OrderStore.Sync: локальное состояние замещено %d заказами из удаленного API", len(remoteOrders))
}

// StartPeriodicSync запускает периодическую синхронизацию.
// Останавливается вызовом Stop при teardown владеющего контекста.
func (s *OrderStore) StartPeriodicSync() {
	go func() {
		ticker := time.NewTicker(s.syncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.Sync(ctx)
				cancel()
			case <-s.stop:
				return
			}
		}
	}()
	log.Printf("⏰ Периодическая синхронизация заказов запущена (каждые %v)", s.syncInterval)
}

// Stop гасит таймер периодической синхронизации. Идемпотентен.
func (s *OrderStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// pruneLocked выбрасывает заказы старше окна хранения. Вызывается под
// локом при каждой загрузке, мутации и периодическом тике - на прошлые
// прогоны никогда не полагаемся. Возвращает число вычищенных.
func (s *OrderStore) pruneLocked() int {
	now := s.now()
	valid := s.orders[:0]
	for _, order := range s.orders {
		if !order.Expired(now) {
			valid = append(valid, order)
		}
	}
	pruned := len(s.orders) - len(valid)
	s.orders = valid
	return pruned
}

// persistLocked перезаписывает локальный слот текущей коллекцией.
// Сбой записи деградирует до предупреждения.
func (s *OrderStore) persistLocked() {
	if s.slot == nil {
		return
	}
	if err := s.slot.Save(s.orders); err != nil {
		log.Printf("⚠️ OrderStore: ошибка записи локального слота: %v", err)
	}
}
