package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOrderNotFound = errors.New("order not found")

const orderItemBatchSize = 100

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder 訂單header與明細在同一個transaction
// 1. 寫入header取得order_id
// 2. 明細補上order_id後批次寫入
// 任一步失敗整筆rollback，不會留下沒有明細的header
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	items := order.OrderItems
	err := s.db.ExecTx(ctx, func(tx *gorm.DB) error {
		header := *order
		header.OrderItems = nil
		header.User = nil
		if err := tx.Omit(clause.Associations).Create(&header).Error; err != nil {
			return err
		}

		rows := make([]model.OrderItem, len(items))
		for i, item := range items {
			item.OrderID = header.OrderID
			item.Product = nil
			rows[i] = item
		}
		if len(rows) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&rows, orderItemBatchSize).Error; err != nil {
				return err
			}
		}

		header.OrderItems = rows
		*order = header
		return nil
	})
	return err
}

// Read - 根據ID查詢訂單，含明細、商品與用戶
func (s *OrderRepo) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		Preload("OrderItems.Product").
		Preload("User").
		First(&order, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單，新到舊
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		Preload("OrderItems.Product").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Order("order_id DESC").
		Find(&orders).Error
	return orders, err
}

// Read - 查詢所有訂單
func (s *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").Order("order_id").Find(&orders).Error
	return orders, err
}

// TransitionOrderStatus 只有目前狀態為from時才更新，回傳是否有更新
func (s *OrderRepo) TransitionOrderStatus(ctx context.Context, id uint, from, to model.OrderStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Update - 無條件更新訂單狀態，回傳受影響筆數
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, id uint, status model.OrderStatus) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}
