package service

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/rs/zerolog"
)

// OrderService 訂單建立與狀態轉換
// 建立失敗會回傳錯誤；查詢與狀態更新的錯誤只記錄，回傳 false/空結果
type OrderService struct {
	orderRepo db.IOrderRepository
	publisher producer.OrderEventPublisher
	logger    zerolog.Logger
}

// publisher 可為 nil，不發送狀態變更事件
func NewOrderService(orderRepo db.IOrderRepository, publisher producer.OrderEventPublisher, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger.With().Str("component", "order").Logger(),
	}
}

// CreateOrder header 與明細同一個transaction寫入
// 狀態固定為 Processing，建立時間為當下
// 不會扣庫存，由 checkout 負責
func (s *OrderService) CreateOrder(ctx context.Context, draft *model.Order) (*model.Order, error) {
	if len(draft.OrderItems) == 0 {
		return nil, ErrEmptyOrder
	}

	order := *draft
	order.OrderID = 0
	order.OrderItems = make([]model.OrderItem, len(draft.OrderItems))
	copy(order.OrderItems, draft.OrderItems)
	order.OrderDate = time.Now().UTC()
	order.Status = model.OrderStatusProcessing

	if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
		s.logger.Error().
			Err(err).
			Uint("user_id", order.UserID).
			Int("items", len(order.OrderItems)).
			Msg("create order rolled back")
		return nil, err
	}

	s.logger.Info().
		Uint("order_id", order.OrderID).
		Uint("user_id", order.UserID).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created")
	return &order, nil
}

// GetOrderByID 含明細、商品與用戶
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uint) (*model.Order, bool) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) {
			s.logger.Error().Err(err).Uint("order_id", orderID).Msg("get order failed")
		}
		return nil, false
	}
	return order, true
}

// GetUserOrders 依建立時間由新到舊
func (s *OrderService) GetUserOrders(ctx context.Context, userID uint) []model.Order {
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("get user orders failed")
		return []model.Order{}
	}
	return orders
}

// ListOrders 管理用途，所有訂單依 order_id 排序，含明細
func (s *OrderService) ListOrders(ctx context.Context) []model.Order {
	orders, err := s.orderRepo.GetAllOrders(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list orders failed")
		return []model.Order{}
	}
	return orders
}

// CancelOrder 只有 Processing 可以取消
// 不會回補庫存，由呼叫端接著呼叫 RestoreInventoryOrder
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) bool {
	ok, err := s.orderRepo.TransitionOrderStatus(ctx, orderID, model.OrderStatusProcessing, model.OrderStatusCancelled)
	if err != nil {
		s.logger.Error().Err(err).Uint("order_id", orderID).Msg("cancel order failed")
		return false
	}
	if !ok {
		s.logger.Info().Uint("order_id", orderID).Msg("order not found or not cancellable")
	}
	return ok
}

// UpdateOrderStatus 管理用途，不檢查狀態轉換，只檢查狀態值
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) bool {
	if !status.Valid() {
		s.logger.Warn().Uint("order_id", orderID).Str("status", string(status)).Msg("rejected invalid order status")
		return false
	}

	affected, err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		s.logger.Error().Err(err).Uint("order_id", orderID).Msg("update order status failed")
		return false
	}
	if affected == 0 {
		return false
	}

	s.publishStatusChanged(ctx, orderID, status)
	return true
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID uint, status model.OrderStatus) {
	if s.publisher == nil {
		return
	}
	order, ok := s.GetOrderByID(ctx, orderID)
	if !ok {
		return
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, order, status); err != nil {
		s.logger.Warn().Err(err).Uint("order_id", orderID).Msg("publish order status changed failed")
	}
}
