package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzapoint/server/internal/models"
)

func TestCreateOrderRequestBindsContractBody(t *testing.T) {
	// Тело запроса в формате контракта: {name, phone, address, items, total}
	body := `{
		"name": "Ali",
		"phone": "0300-1234567",
		"address": "Gulberg III",
		"items": [{"id": "p1", "quantity": 1, "totalPrice": 650}],
		"total": 650
	}`

	var req createOrderRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	// Имя клиента привязывается - валидация обязательных полей проходит
	assert.Equal(t, "Ali", req.Name)
	assert.Equal(t, "0300-1234567", req.Phone)
	require.NotNil(t, req.Total)
	assert.Equal(t, 650.0, *req.Total)
	assert.Len(t, req.Items, 1)
	assert.False(t, req.Name == "" || req.Phone == "" || len(req.Items) == 0 || req.Total == nil)
}

func TestOrderResponseUsesContractFieldNames(t *testing.T) {
	rec := models.OrderRecord{
		ID:        "o1",
		Name:      "Ali",
		Phone:     "0300-1234567",
		Address:   "Gulberg III",
		OrderType: models.OrderTypeDelivery,
		Total:     650,
		Status:    models.StatusPending,
		CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	resp := orderResponse(rec, nil)

	assert.Equal(t, "o1", resp["_id"])
	assert.Equal(t, "Ali", resp["name"])
	assert.NotContains(t, resp, "customerName")
}
