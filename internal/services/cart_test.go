package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzapoint/server/internal/models"
)

func TestCartAddMergesSameIdentity(t *testing.T) {
	item := testPizza()
	cart := NewCart()

	cart.AddItem(item, 1, "Medium", []string{"Cheese"})
	cart.AddItem(item, 2, "Medium", []string{"Cheese"})

	view := cart.Snapshot()
	require.Len(t, view.Items, 1, "одинаковый кортеж идентичности сливается в одну строку")
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 1950.0, view.Items[0].TotalPrice)
	assert.True(t, view.IsOpen, "добавление открывает корзину")
}

func TestCartToppingOrderDoesNotMatter(t *testing.T) {
	item := testPizza()
	cart := NewCart()

	cart.AddItem(item, 1, "Large", []string{"Pepperoni", "Cheese"})
	cart.AddItem(item, 1, "Large", []string{"Cheese", "Pepperoni"})

	view := cart.Snapshot()
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartDifferentIdentityKeepsSeparateLines(t *testing.T) {
	item := testPizza()
	cart := NewCart()

	cart.AddItem(item, 1, "Small", nil)
	cart.AddItem(item, 1, "Medium", nil)
	cart.AddItem(item, 1, "Medium", []string{"Cheese"})

	assert.Len(t, cart.Snapshot().Items, 3)
}

func TestCartAddNonPositiveQuantityIsNoop(t *testing.T) {
	item := testPizza()
	cart := NewCart()

	cart.AddItem(item, 0, "", nil)
	cart.AddItem(item, -2, "", nil)

	view := cart.Snapshot()
	assert.Empty(t, view.Items)
	assert.False(t, view.IsOpen)
}

func TestCartUpdateQuantityZeroRemoves(t *testing.T) {
	item := testPizza()

	for _, quantity := range []int{0, -1} {
		cart := NewCart()
		cart.AddItem(item, 2, "Medium", nil)
		lineID := cart.Snapshot().Items[0].LineID

		cart.UpdateQuantity(lineID, quantity)
		assert.Empty(t, cart.Snapshot().Items, "quantity=%d удаляет строку", quantity)
	}
}

func TestCartUpdateQuantityRecomputesTotal(t *testing.T) {
	item := testPizza()
	cart := NewCart()
	cart.AddItem(item, 1, "Medium", []string{"Cheese"})
	lineID := cart.Snapshot().Items[0].LineID

	cart.UpdateQuantity(lineID, 4)

	view := cart.Snapshot()
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assert.Equal(t, 2600.0, view.Items[0].TotalPrice)
}

func TestCartRemoveByCatalogID(t *testing.T) {
	item := testPizza()
	cart := NewCart()
	cart.AddItem(item, 1, "Small", nil)
	cart.AddItem(item, 1, "Large", nil)

	// По ID каталога удаляется ровно первая подходящая строка
	cart.RemoveItem(item.ID)

	view := cart.Snapshot()
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Large", view.Items[0].SelectedSize)
}

func TestCartMissingIDIsNoop(t *testing.T) {
	item := testPizza()
	cart := NewCart()
	cart.AddItem(item, 1, "Small", nil)

	cart.RemoveItem("missing-id")
	cart.UpdateQuantity("missing-id", 5)

	view := cart.Snapshot()
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestCartTotalsAlwaysConsistent(t *testing.T) {
	item := testPizza()
	other := models.MenuItem{ID: "b1", Name: "Test Burger", Price: 350}
	cart := NewCart()

	// Инварианты должны держаться после любой последовательности операций
	check := func() {
		view := cart.Snapshot()
		var wantTotal float64
		wantCount := 0
		for _, line := range view.Items {
			wantTotal += line.TotalPrice
			wantCount += line.Quantity
		}
		assert.Equal(t, wantTotal, view.Total)
		assert.Equal(t, wantCount, view.ItemCount)
	}

	cart.AddItem(item, 2, "Medium", []string{"Cheese"})
	check()
	cart.AddItem(other, 1, "", nil)
	check()
	cart.AddItem(item, 1, "Medium", []string{"Cheese"})
	check()
	cart.UpdateQuantity(cart.Snapshot().Items[0].LineID, 5)
	check()
	cart.RemoveItem(other.ID)
	check()
	cart.Clear()
	check()
	assert.Equal(t, 0.0, cart.Total())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestCartToggleAndClose(t *testing.T) {
	cart := NewCart()

	cart.ToggleOpen()
	assert.True(t, cart.Snapshot().IsOpen)
	cart.ToggleOpen()
	assert.False(t, cart.Snapshot().IsOpen)

	cart.Open()
	cart.Close()
	assert.False(t, cart.Snapshot().IsOpen)
}

func TestCartClearKeepsVisibility(t *testing.T) {
	item := testPizza()
	cart := NewCart()
	cart.AddItem(item, 1, "", nil)
	require.True(t, cart.Snapshot().IsOpen)

	cart.Clear()

	view := cart.Snapshot()
	assert.Empty(t, view.Items)
	assert.True(t, view.IsOpen, "очистка не трогает видимость панели")
}

func TestCartServiceSessionIsolation(t *testing.T) {
	item := testPizza()
	cs := NewCartService()

	cs.GetCart("session-a").AddItem(item, 1, "", nil)

	assert.Equal(t, 1, cs.GetCart("session-a").ItemCount())
	assert.Equal(t, 0, cs.GetCart("session-b").ItemCount())

	// Один и тот же указатель для одной сессии
	assert.Same(t, cs.GetCart("session-a"), cs.GetCart("session-a"))

	cs.DropCart("session-a")
	assert.Equal(t, 0, cs.GetCart("session-a").ItemCount())
}
