package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pizzapoint/server/internal/models"
)

// RemoteOrders - удаленный Order API, в который стор реплицирует заказы.
// Все вызовы best-effort: недоступность удаленной стороны никогда не
// требуется для корректности локальных операций.
type RemoteOrders interface {
	FetchOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, order models.Order) error
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
}

// remoteOrderRecord - формат записи заказа в удаленном API
type remoteOrderRecord struct {
	ID        string                `json:"_id"`
	Name      string                `json:"name"`
	Phone     string                `json:"phone"`
	Address   string                `json:"address,omitempty"`
	OrderType string                `json:"orderType,omitempty"`
	Items     []models.CartLineItem `json:"items"`
	Total     float64               `json:"total"`
	Status    string                `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
}

// HTTPRemoteOrders - HTTP клиент удаленного Order API
type HTTPRemoteOrders struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRemoteOrders создает клиент. baseURL - корень API, например
// "http://localhost:4000/api".
func NewHTTPRemoteOrders(baseURL string) *HTTPRemoteOrders {
	return &HTTPRemoteOrders{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchOrders загружает полную коллекцию заказов (новые первыми)
func (r *HTTPRemoteOrders) FetchOrders(ctx context.Context) ([]models.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/orders", nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch orders: unexpected status %d", resp.StatusCode)
	}

	var records []remoteOrderRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("fetch orders: decode: %w", err)
	}

	orders := make([]models.Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, rec.toOrder())
	}
	return orders, nil
}

// toOrder маппит удаленную запись во внутреннюю форму заказа.
// Тип заказа по умолчанию delivery - апстрим его может не хранить.
func (rec remoteOrderRecord) toOrder() models.Order {
	orderType := rec.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDelivery
	}
	status := rec.Status
	if status == "" {
		status = models.StatusPending
	}
	return models.Order{
		ID:    rec.ID,
		Items: rec.Items,
		Customer: models.Customer{
			Name:    rec.Name,
			Phone:   rec.Phone,
			Address: rec.Address,
		},
		OrderType: orderType,
		Status:    status,
		Total:     rec.Total,
		CreatedAt: rec.CreatedAt,
	}
}

// CreateOrder отправляет новый заказ в удаленный API
func (r *HTTPRemoteOrders) CreateOrder(ctx context.Context, order models.Order) error {
	body, err := json.Marshal(map[string]interface{}{
		"id":        order.ID,
		"name":      order.Customer.Name,
		"phone":     order.Customer.Phone,
		"address":   order.Customer.Address,
		"orderType": order.OrderType,
		"items":     order.Items,
		"total":     order.Total,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create order: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// UpdateOrderStatus отправляет смену статуса в удаленный API
func (r *HTTPRemoteOrders) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, r.baseURL+"/orders/"+orderID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("update order status: unexpected status %d", resp.StatusCode)
	}
	return nil
}
