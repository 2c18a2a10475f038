package event

import (
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
)

type OrderItemData struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Colour    model.Colour    `json:"colour,omitempty"`
	Size      model.Size      `json:"size,omitempty"`
}

type OrderCreatedEvent struct {
	BaseEvent
	OrderID   uint              `json:"order_id"`
	UserID    uint              `json:"user_id"`
	OrderDate time.Time         `json:"order_date"`
	Items     []OrderItemData   `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	Status    model.OrderStatus `json:"status"`
}

func NewOrderCreatedEvent(order *model.Order) *OrderCreatedEvent {
	items := make([]OrderItemData, len(order.OrderItems))
	for i, item := range order.OrderItems {
		items[i] = OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Colour:    item.SelectedColour,
			Size:      item.SelectedSize,
		}
	}
	return &OrderCreatedEvent{
		BaseEvent: newBaseEvent(orderAggregateID(order.OrderID), OrderCreatedEventName),
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		OrderDate: order.OrderDate,
		Items:     items,
		Total:     order.Total,
		Status:    order.Status,
	}
}

func (e *OrderCreatedEvent) Type() EventType {
	return OrderCreatedEventName
}

// Restored 為庫存是否全部回補成功
type OrderCancelledEvent struct {
	BaseEvent
	OrderID  uint `json:"order_id"`
	UserID   uint `json:"user_id"`
	Restored bool `json:"restored"`
	// 回補失敗的商品，可供後續重試
	FailedProductIDs []uint `json:"failed_product_ids,omitempty"`
}

func NewOrderCancelledEvent(order *model.Order, restored bool, failed []model.OrderItem) *OrderCancelledEvent {
	ids := make([]uint, 0, len(failed))
	for _, item := range failed {
		ids = append(ids, item.ProductID)
	}
	return &OrderCancelledEvent{
		BaseEvent:        newBaseEvent(orderAggregateID(order.OrderID), OrderCancelledEventName),
		OrderID:          order.OrderID,
		UserID:           order.UserID,
		Restored:         restored,
		FailedProductIDs: ids,
	}
}

func (e *OrderCancelledEvent) Type() EventType {
	return OrderCancelledEventName
}

type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID  uint              `json:"order_id"`
	ToStatus model.OrderStatus `json:"to_status"`
}

func NewOrderStatusChangedEvent(orderID uint, to model.OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseEvent: newBaseEvent(orderAggregateID(orderID), OrderStatusChangedEventName),
		OrderID:   orderID,
		ToStatus:  to,
	}
}

func (e *OrderStatusChangedEvent) Type() EventType {
	return OrderStatusChangedEventName
}

func orderAggregateID(orderID uint) string {
	return "order-" + strconv.FormatUint(uint64(orderID), 10)
}
