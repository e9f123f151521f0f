package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzapoint/server/internal/models"
)

func TestFetchOrdersMapsRemoteRecords(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"_id":       "o1",
				"name":      "Ali",
				"phone":     "0300-1234567",
				"address":   "Gulberg III",
				"orderType": "takeaway",
				"items":     []interface{}{},
				"total":     650,
				"status":    "ready",
				"createdAt": createdAt.Format(time.RFC3339),
			},
			{
				// Минимальная запись: тип заказа и статус отсутствуют
				"_id":   "o2",
				"name":  "Sara",
				"phone": "0321-7654321",
				"total": 350,
			},
		})
	}))
	defer server.Close()

	remote := NewHTTPRemoteOrders(server.URL)
	orders, err := remote.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, "Ali", orders[0].Customer.Name)
	assert.Equal(t, "0300-1234567", orders[0].Customer.Phone)
	assert.Equal(t, "Gulberg III", orders[0].Customer.Address)
	assert.Equal(t, models.OrderTypeTakeaway, orders[0].OrderType)
	assert.Equal(t, models.StatusReady, orders[0].Status)
	assert.Equal(t, 650.0, orders[0].Total)
	assert.True(t, createdAt.Equal(orders[0].CreatedAt))

	// Дефолты: тип заказа delivery, статус pending
	assert.Equal(t, models.OrderTypeDelivery, orders[1].OrderType)
	assert.Equal(t, models.StatusPending, orders[1].Status)
}

func TestFetchOrdersErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	remote := NewHTTPRemoteOrders(server.URL)
	_, err := remote.FetchOrders(context.Background())
	assert.Error(t, err)
}

func TestCreateOrderSendsContractFields(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	remote := NewHTTPRemoteOrders(server.URL)
	err := remote.CreateOrder(context.Background(), models.Order{
		ID: "o1",
		Customer: models.Customer{
			Name:    "Ali",
			Phone:   "0300-1234567",
			Address: "Gulberg III",
		},
		OrderType: models.OrderTypeDelivery,
		Items:     []models.CartLineItem{{Quantity: 1, TotalPrice: 650}},
		Total:     650,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	// Имя клиента уходит в поле name - то самое, которое сервер валидирует
	assert.Equal(t, "Ali", captured["name"])
	assert.Equal(t, "0300-1234567", captured["phone"])
	assert.Equal(t, "Gulberg III", captured["address"])
	assert.NotNil(t, captured["items"])
	assert.Equal(t, 650.0, captured["total"])
}

func TestCreateOrderRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	remote := NewHTTPRemoteOrders(server.URL)
	err := remote.CreateOrder(context.Background(), models.Order{ID: "o1"})
	assert.Error(t, err)
}

func TestUpdateOrderStatusPatch(t *testing.T) {
	var capturedPath string
	var captured map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		capturedPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
	}))
	defer server.Close()

	remote := NewHTTPRemoteOrders(server.URL)
	err := remote.UpdateOrderStatus(context.Background(), "o1", models.StatusReady)
	require.NoError(t, err)

	assert.Equal(t, "/orders/o1", capturedPath)
	assert.Equal(t, models.StatusReady, captured["status"])
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	remote := NewHTTPRemoteOrders(server.URL)
	err := remote.UpdateOrderStatus(context.Background(), "missing-id", models.StatusReady)
	assert.Error(t, err)
}
