package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/domain/model/event"
	"github.com/RoyceAzure/lab/shop/internal/infra/kafka"
)

//go:generate mockgen -source=order_event_producer.go -destination=mock/order_event_producer_mock.go -package=mock_producer

const EventTypeHeader = "event_type"

// OrderEventPublisher 發布訂單事件
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *model.Order) error
	PublishOrderCancelled(ctx context.Context, order *model.Order, restored bool, failed []model.OrderItem) error
	PublishOrderStatusChanged(ctx context.Context, order *model.Order, to model.OrderStatus) error
}

type OrderEventProducer struct {
	producer kafka.Producer
}

func NewOrderEventProducer(producer kafka.Producer) *OrderEventProducer {
	return &OrderEventProducer{producer: producer}
}

func (p *OrderEventProducer) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	return p.publish(ctx, order.UserID, event.NewOrderCreatedEvent(order))
}

func (p *OrderEventProducer) PublishOrderCancelled(ctx context.Context, order *model.Order, restored bool, failed []model.OrderItem) error {
	return p.publish(ctx, order.UserID, event.NewOrderCancelledEvent(order, restored, failed))
}

func (p *OrderEventProducer) PublishOrderStatusChanged(ctx context.Context, order *model.Order, to model.OrderStatus) error {
	return p.publish(ctx, order.UserID, event.NewOrderStatusChangedEvent(order.OrderID, to))
}

// 同一個user的事件落在同一個partition
func (p *OrderEventProducer) publish(ctx context.Context, userID uint, evt event.Event) error {
	msg, err := convertToMessage(userID, evt)
	if err != nil {
		return err
	}
	return p.producer.Produce(ctx, msg)
}

func convertToMessage(userID uint, evt event.Event) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event failed: %w", evt.Type(), err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(userID), 10)),
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   EventTypeHeader,
				Value: []byte(evt.Type()),
			},
		},
		Time: time.Now().UTC(),
	}, nil
}

var _ OrderEventPublisher = (*OrderEventProducer)(nil)
