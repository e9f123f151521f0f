package models

import (
	"slices"
	"time"
)

// Статусы заказа. Запись статуса свободная: админка может выставить любое
// значение в любой момент, жесткой машины состояний здесь нет.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
)

// Типы заказа
const (
	OrderTypeDelivery = "delivery"
	OrderTypeTakeaway = "takeaway"
)

// RetentionWindow - окно хранения заказа. Заказ старше 24 часов вычищается
// из активной коллекции при каждой загрузке, мутации и периодическом тике.
const RetentionWindow = 24 * time.Hour

// CartLineItem - одна кастомизированная строка корзины или заказа:
// снапшот позиции меню + количество + выбранный размер + топпинги + итог.
type CartLineItem struct {
	MenuItem
	LineID           string   `json:"lineId"`
	Quantity         int      `json:"quantity"`
	SelectedSize     string   `json:"selectedSize,omitempty"`
	SelectedToppings []string `json:"selectedToppings,omitempty"`
	TotalPrice       float64  `json:"totalPrice"`
}

// SameIdentity проверяет, совпадает ли строка по кортежу идентичности
// (ID позиции, размер, нормализованный набор топпингов). Топпинги сравниваются
// структурно по отсортированным спискам, а не по склеенной строке.
func (li CartLineItem) SameIdentity(itemID, size string, sortedToppings []string) bool {
	if li.MenuItem.ID != itemID || li.SelectedSize != size {
		return false
	}
	mine := NormalizeToppings(li.SelectedToppings)
	return slices.Equal(mine, sortedToppings)
}

// NormalizeToppings возвращает отсортированную копию списка топпингов
func NormalizeToppings(toppings []string) []string {
	if len(toppings) == 0 {
		return nil
	}
	normalized := slices.Clone(toppings)
	slices.Sort(normalized)
	return normalized
}

// Customer - данные клиента при оформлении заказа
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Order - размещенный заказ. Состав и сумма замораживаются при создании,
// после создания меняется только Status.
type Order struct {
	ID        string         `json:"id"`
	DisplayID string         `json:"displayId,omitempty"`
	Items     []CartLineItem `json:"items"`
	Customer  Customer       `json:"customer"`
	OrderType string         `json:"orderType"`
	Status    string         `json:"status"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Expired проверяет, вышел ли заказ за окно хранения.
// Возраст считается в часах по wall-clock на момент проверки.
func (o Order) Expired(now time.Time) bool {
	return now.Sub(o.CreatedAt).Hours() > RetentionWindow.Hours()
}
