package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/rs/zerolog"
)

// InventoryService 每個商品只有一個庫存數字
// colour/size 只記錄在日誌，不影響扣補
type InventoryService struct {
	productRepo db.IProductRepository
	logger      zerolog.Logger
}

func NewInventoryService(productRepo db.IProductRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		logger:      logger.With().Str("component", "inventory").Logger(),
	}
}

// ReduceInventory 扣庫存，不足時整筆拒絕
// 錯誤:
//   - ErrProductNotFound: 商品不存在
//   - ErrInsufficientStock: 庫存不足，庫存不變
//   - 其他: 儲存層錯誤，已記錄
func (s *InventoryService) ReduceInventory(ctx context.Context, productID uint, colour model.Colour, size model.Size, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	stock, err := s.productRepo.DeductProductStock(ctx, productID, quantity)
	if err != nil {
		return s.handleErr("reduce", productID, colour, size, quantity, err)
	}

	s.logger.Debug().
		Uint("product_id", productID).
		Str("colour", string(colour)).
		Str("size", string(size)).
		Int("quantity", quantity).
		Int("stock", stock).
		Msg("inventory reduced")
	return nil
}

// RestoreInventory 回補庫存，用於補償與取消訂單
func (s *InventoryService) RestoreInventory(ctx context.Context, productID uint, colour model.Colour, size model.Size, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	stock, err := s.productRepo.AddProductStock(ctx, productID, quantity)
	if err != nil {
		return s.handleErr("restore", productID, colour, size, quantity, err)
	}

	s.logger.Debug().
		Uint("product_id", productID).
		Str("colour", string(colour)).
		Str("size", string(size)).
		Int("quantity", quantity).
		Int("stock", stock).
		Msg("inventory restored")
	return nil
}

// RestoreInventoryOrder 逐筆回補，單筆失敗不會中斷其他筆
// 回傳是否全部成功，以及失敗的明細
func (s *InventoryService) RestoreInventoryOrder(ctx context.Context, order *model.Order) (bool, []model.OrderItem) {
	var failed []model.OrderItem
	for _, item := range order.OrderItems {
		if err := s.RestoreInventory(ctx, item.ProductID, item.SelectedColour, item.SelectedSize, item.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Uint("order_id", order.OrderID).
				Uint("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("restore order item failed")
			failed = append(failed, item)
		}
	}
	return len(failed) == 0, failed
}

// GetCurrentStock 商品不存在或查詢失敗都回傳 0
func (s *InventoryService) GetCurrentStock(ctx context.Context, productID uint, colour model.Colour, size model.Size) int {
	stock, err := s.productRepo.GetProductStock(ctx, productID)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			s.logger.Error().Err(err).Uint("product_id", productID).Msg("get stock failed")
		}
		return 0
	}
	return stock
}

func (s *InventoryService) handleErr(op string, productID uint, colour model.Colour, size model.Size, quantity int, err error) error {
	if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInsufficientStock) {
		s.logger.Info().
			Err(err).
			Str("op", op).
			Uint("product_id", productID).
			Int("quantity", quantity).
			Msg("inventory rejected")
		return err
	}

	s.logger.Error().
		Err(err).
		Str("op", op).
		Uint("product_id", productID).
		Str("colour", string(colour)).
		Str("size", string(size)).
		Int("quantity", quantity).
		Msg("inventory storage fault")
	return fmt.Errorf("%s inventory of product %d: %w", op, productID, err)
}
