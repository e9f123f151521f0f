package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzapoint/server/internal/models"
)

// fakeSlot - слот в памяти с инжектируемой ошибкой
type fakeSlot struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (f *fakeSlot) Save(orders []models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orders = append([]models.Order(nil), orders...)
	return nil
}

func (f *fakeSlot) Load() ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeSlot) stored() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...)
}

// fakeRemote - удаленный API с настраиваемыми ответами
type fakeRemote struct {
	mu          sync.Mutex
	fetchResult []models.Order
	fetchErr    error
	createErr   error
	created     []models.Order
	statusCalls []string
}

func (f *fakeRemote) FetchOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]models.Order(nil), f.fetchResult...), nil
}

func (f *fakeRemote) CreateOrder(ctx context.Context, order models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, order)
	return f.createErr
}

func (f *fakeRemote) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, orderID+":"+status)
	return nil
}

// fakeNotifier фиксирует уведомления о новых заказах
type fakeNotifier struct {
	mu     sync.Mutex
	orders []models.Order
}

func (f *fakeNotifier) NotifyNewOrder(order models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, order)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func testOrder(id string, age time.Duration, now time.Time) models.Order {
	return models.Order{
		ID:        id,
		DisplayID: "1234",
		Status:    models.StatusPending,
		Total:     650,
		CreatedAt: now.Add(-age),
		Customer:  models.Customer{Name: "Ali", Phone: "0300-1234567"},
	}
}

func newTestStore(slot OrderSlot, remote RemoteOrders, notifier OrderNotifier, now time.Time) *OrderStore {
	store := NewOrderStore(slot, remote, notifier, time.Hour)
	store.now = func() time.Time { return now }
	return store
}

func TestLoadEmptyRemoteFallsBackToSlot(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{orders: []models.Order{testOrder("o1", 10*time.Hour, now)}}
	remote := &fakeRemote{fetchResult: nil}

	store := newTestStore(slot, remote, nil, now)
	store.Load(context.Background())

	// Заказ возрастом 10 часов переживает загрузку с пустым удаленным ответом
	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

func TestLoadRemoteFailureFallsBackToSlot(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{orders: []models.Order{testOrder("o1", time.Hour, now)}}
	remote := &fakeRemote{fetchErr: errors.New("connection refused")}

	store := newTestStore(slot, remote, nil, now)
	store.Load(context.Background())

	assert.Len(t, store.Orders(), 1)
}

func TestLoadNonEmptyRemoteWinsAndPersists(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{orders: []models.Order{testOrder("local", time.Hour, now)}}
	remote := &fakeRemote{fetchResult: []models.Order{
		testOrder("r1", time.Hour, now),
		testOrder("r2", 2*time.Hour, now),
	}}

	store := newTestStore(slot, remote, nil, now)
	store.Load(context.Background())

	orders := store.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "r1", orders[0].ID)

	// Удаленная коллекция перезаписывает слот
	stored := slot.stored()
	require.Len(t, stored, 2)
	assert.Equal(t, "r1", stored[0].ID)
}

func TestLoadPrunesExpiredFromSlot(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{orders: []models.Order{
		testOrder("fresh", 10*time.Hour, now),
		testOrder("stale", 30*time.Hour, now),
	}}

	store := newTestStore(slot, nil, nil, now)
	store.Load(context.Background())

	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "fresh", orders[0].ID)
}

func TestAddOrderPersistsAndNotifies(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{}
	notifier := &fakeNotifier{}

	store := newTestStore(slot, nil, notifier, now)
	store.AddOrder(testOrder("o1", 0, now))

	assert.Len(t, store.Orders(), 1)
	assert.Len(t, slot.stored(), 1)
	assert.Equal(t, 1, notifier.count())
}

func TestAddOrderSurvivesRemoteFailure(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{}
	remote := &fakeRemote{createErr: errors.New("remote down")}

	store := newTestStore(slot, remote, nil, now)
	store.AddOrder(testOrder("o1", 0, now))

	// Сбой репликации не откатывает локальное добавление
	assert.Len(t, store.Orders(), 1)
	assert.Len(t, slot.stored(), 1)
}

func TestMutationPrunesExpired(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{}
	remote := &fakeRemote{fetchResult: []models.Order{testOrder("stale", 30*time.Hour, now)}}

	store := newTestStore(slot, remote, nil, now)
	store.Load(context.Background())
	// Непустой удаленный ответ принимается как есть, даже с просроченным заказом
	require.Len(t, store.Orders(), 1)

	// Следующая мутация вычищает его
	store.AddOrder(testOrder("fresh", 0, now))

	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "fresh", orders[0].ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{}

	store := newTestStore(slot, nil, nil, now)
	store.AddOrder(testOrder("o1", 0, now))

	ok := store.UpdateOrderStatus("o1", models.StatusReady)
	assert.True(t, ok)

	order, found := store.GetOrder("o1")
	require.True(t, found)
	assert.Equal(t, models.StatusReady, order.Status)

	// Статус пишется как есть: движение назад по жизненному циклу разрешено
	store.UpdateOrderStatus("o1", models.StatusPending)
	order, _ = store.GetOrder("o1")
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestUpdateOrderStatusMissingIDIsNoop(t *testing.T) {
	now := time.Now()
	store := newTestStore(&fakeSlot{}, nil, nil, now)
	store.AddOrder(testOrder("o1", 0, now))

	ok := store.UpdateOrderStatus("missing-id", models.StatusReady)

	assert.False(t, ok)
	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusPending, orders[0].Status)
}

func TestSyncLastFetchWins(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{}
	remote := &fakeRemote{fetchResult: []models.Order{testOrder("remote", time.Hour, now)}}

	store := newTestStore(slot, remote, nil, now)
	store.AddOrder(testOrder("local", 0, now))

	store.Sync(context.Background())

	// Непустой fetch полностью замещает локальное состояние, слияния нет
	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "remote", orders[0].ID)
}

func TestSyncEmptyRemoteKeepsLocal(t *testing.T) {
	now := time.Now()
	remote := &fakeRemote{fetchResult: nil}

	store := newTestStore(&fakeSlot{}, remote, nil, now)
	store.AddOrder(testOrder("local", 0, now))

	store.Sync(context.Background())

	assert.Len(t, store.Orders(), 1)
}

func TestSyncPrunesBeforeFetch(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{}
	remote := &fakeRemote{fetchErr: errors.New("offline")}

	store := newTestStore(slot, remote, nil, now)
	store.AddOrder(testOrder("fresh", 0, now))
	store.AddOrder(testOrder("old-enough", 23*time.Hour, now))

	// Сдвигаем часы: второй заказ пересекает окно хранения
	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	store.Sync(context.Background())

	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "fresh", orders[0].ID)
	assert.Len(t, slot.stored(), 1)
}

func TestOrdersByStatus(t *testing.T) {
	now := time.Now()
	store := newTestStore(&fakeSlot{}, nil, nil, now)
	store.AddOrder(testOrder("o1", 0, now))
	store.AddOrder(testOrder("o2", 0, now))
	store.UpdateOrderStatus("o2", models.StatusPreparing)

	assert.Len(t, store.OrdersByStatus(models.StatusPending), 1)
	assert.Len(t, store.OrdersByStatus(models.StatusPreparing), 1)
	assert.Empty(t, store.OrdersByStatus(models.StatusCompleted))
}

func TestAddOrderToleratesSlotFailure(t *testing.T) {
	now := time.Now()
	slot := &fakeSlot{err: errors.New("redis down")}

	store := newTestStore(slot, nil, nil, now)
	store.AddOrder(testOrder("o1", 0, now))

	// Сбой записи слота деградирует до предупреждения
	assert.Len(t, store.Orders(), 1)
}

func TestStoreWorksWithoutCollaborators(t *testing.T) {
	now := time.Now()
	store := newTestStore(nil, nil, nil, now)

	store.Load(context.Background())
	store.AddOrder(testOrder("o1", 0, now))
	store.Sync(context.Background())

	assert.Len(t, store.Orders(), 1)
}

func TestStopIsIdempotent(t *testing.T) {
	store := NewOrderStore(nil, nil, nil, time.Hour)
	store.StartPeriodicSync()
	store.Stop()
	store.Stop()
}
