package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// 同時查詢商品的上限
const productCheckConcurrency = 8

type CheckoutRequest struct {
	UserID    uint
	SessionID string
	// 0 表示使用預設地址
	AddressID uint
}

type CancelResult struct {
	Cancelled bool
	// 所有明細都回補成功
	Restored    bool
	FailedItems []model.OrderItem
}

// CheckoutService 購物車 -> 扣庫存 -> 建立訂單
// 任一步失敗都會回補已扣的庫存
type CheckoutService struct {
	carts       *CartService
	addresses   *AddressService
	inventory   *InventoryService
	orders      *OrderService
	userRepo    db.IUserRepository
	productRepo db.IProductRepository
	publisher   producer.OrderEventPublisher
	logger      zerolog.Logger
}

func NewCheckoutService(
	carts *CartService,
	addresses *AddressService,
	inventory *InventoryService,
	orders *OrderService,
	userRepo db.IUserRepository,
	productRepo db.IProductRepository,
	publisher producer.OrderEventPublisher,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		addresses:   addresses,
		inventory:   inventory,
		orders:      orders,
		userRepo:    userRepo,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger.With().Str("component", "checkout").Logger(),
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error) {
	log := s.logger.With().Uint("user_id", req.UserID).Str("session_id", req.SessionID).Logger()

	if _, err := s.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	address, err := s.resolveAddress(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := checkVariants(cart); err != nil {
		return nil, err
	}

	if err := s.checkProducts(ctx, cart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	// 依購物車順序扣庫存，失敗時回補已扣的部分
	applied := make([]model.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if err := s.inventory.ReduceInventory(ctx, item.ProductID, item.Colour, item.Size, item.Quantity); err != nil {
			log.Info().Err(err).Uint("product_id", item.ProductID).Msg("checkout debit failed, compensating")
			s.compensate(ctx, applied)
			return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
		}
		applied = append(applied, item)
	}

	draft := &model.Order{
		UserID:            req.UserID,
		ShippingAddressID: &address.AddressID,
		Total:             cart.TotalPrice().Round(2),
		OrderItems:        make([]model.OrderItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		draft.OrderItems = append(draft.OrderItems, model.OrderItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.Price,
			SelectedColour: item.Colour,
			SelectedSize:   item.Size,
		})
	}

	order, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		log.Error().Err(err).Msg("create order failed, compensating")
		s.compensate(ctx, applied)
		return nil, fmt.Errorf("%w: %w", ErrOrderNotPlaced, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			log.Warn().Err(err).Uint("order_id", order.OrderID).Msg("publish order created failed")
		}
	}

	if err := s.carts.Clear(ctx, req.SessionID); err != nil {
		log.Warn().Err(err).Uint("order_id", order.OrderID).Msg("clear cart after checkout failed")
	}

	log.Info().Uint("order_id", order.OrderID).Str("total", order.Total.StringFixed(2)).Msg("checkout completed")
	return order, nil
}

// CancelOrder 取消成功後回補整張訂單的庫存
// 明細在狀態轉換前讀出，讀取失敗時訂單維持原狀可以重試
func (s *CheckoutService) CancelOrder(ctx context.Context, orderID uint) CancelResult {
	order, ok := s.orders.GetOrderByID(ctx, orderID)
	if !ok || order.Status != model.OrderStatusProcessing {
		return CancelResult{}
	}

	if !s.orders.CancelOrder(ctx, orderID) {
		return CancelResult{}
	}
	order.Status = model.OrderStatusCancelled

	restored, failed := s.inventory.RestoreInventoryOrder(ctx, order)
	if !restored {
		s.logger.Warn().Uint("order_id", orderID).Int("failed", len(failed)).Msg("order stock partially restored")
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCancelled(ctx, order, restored, failed); err != nil {
			s.logger.Warn().Err(err).Uint("order_id", orderID).Msg("publish order cancelled failed")
		}
	}

	return CancelResult{Cancelled: true, Restored: restored, FailedItems: failed}
}

// 指定地址必須屬於該user，否則用預設地址
func (s *CheckoutService) resolveAddress(ctx context.Context, req CheckoutRequest) (*model.Address, error) {
	if req.AddressID != 0 {
		address, err := s.addresses.GetAddress(ctx, req.AddressID)
		if errors.Is(err, ErrAddressNotFound) {
			return nil, ErrNoShippingAddress
		}
		if err != nil {
			return nil, err
		}
		if address.UserID != req.UserID {
			return nil, ErrNoShippingAddress
		}
		return address, nil
	}

	address, err := s.addresses.GetDefaultAddress(ctx, req.UserID)
	if errors.Is(err, ErrAddressNotFound) {
		return nil, ErrNoShippingAddress
	}
	return address, err
}

// 訂單明細以 (訂單, 商品) 為key，同一商品不能有兩種規格
func checkVariants(cart *model.Cart) error {
	seen := make(map[uint]model.CartItemKey, len(cart.Items))
	for _, item := range cart.Items {
		if prev, ok := seen[item.ProductID]; ok && prev != item.Key() {
			return fmt.Errorf("%w: product %d", ErrConflictingVariants, item.ProductID)
		}
		seen[item.ProductID] = item.Key()
	}
	return nil
}

func (s *CheckoutService) checkProducts(ctx context.Context, cart *model.Cart) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(productCheckConcurrency)
	for _, item := range cart.Items {
		productID := item.ProductID
		g.Go(func() error {
			if _, err := s.productRepo.GetProductByID(gctx, productID); err != nil {
				return fmt.Errorf("product %d: %w", productID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// 反向回補，失敗只記錄
// request 被取消也要完成回補
func (s *CheckoutService) compensate(ctx context.Context, applied []model.CartItem) {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		item := applied[i]
		if err := s.inventory.RestoreInventory(ctx, item.ProductID, item.Colour, item.Size, item.Quantity); err != nil {
			s.logger.Error().
				Err(err).
				Uint("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("compensating restore failed")
		}
	}
}
