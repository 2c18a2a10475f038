package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCreatedEvent(t *testing.T) {
	order := &model.Order{
		OrderID:   42,
		UserID:    7,
		Total:     decimal.RequireFromString("59.98"),
		OrderDate: time.Now().UTC(),
		Status:    model.OrderStatusProcessing,
		OrderItems: []model.OrderItem{
			{OrderID: 42, ProductID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("29.99"), SelectedColour: model.ColourRed},
			{OrderID: 42, ProductID: 2, Quantity: 2, UnitPrice: decimal.RequireFromString("14.99")},
		},
	}

	evt := NewOrderCreatedEvent(order)
	require.Equal(t, OrderCreatedEventName, evt.Type())
	require.NotEmpty(t, evt.GetID())
	require.Equal(t, "order-42", evt.AggregateID)
	require.Len(t, evt.Items, 2)
	require.Equal(t, model.ColourRed, evt.Items[0].Colour)

	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"eventType":"OrderCreated"`)
}

func TestNewOrderCancelledEvent(t *testing.T) {
	order := &model.Order{OrderID: 3, UserID: 1}
	evt := NewOrderCancelledEvent(order, false, []model.OrderItem{{ProductID: 9}})

	require.Equal(t, OrderCancelledEventName, evt.Type())
	require.False(t, evt.Restored)
	require.Equal(t, []uint{9}, evt.FailedProductIDs)
}
