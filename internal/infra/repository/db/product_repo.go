package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductStockNotEnough 商品庫存不足
	ErrProductStockNotEnough = errors.New("product stock not enough")
)

/*
庫存只有一個計數器
扣庫存使用條件式更新 stock >= quantity，併發時由資料庫保證不會變成負數
*/
type ProductDBRepo struct {
	db *DbDao
}

func NewProductDBRepo(db *DbDao) *ProductDBRepo {
	return &ProductDBRepo{db: db}
}

func (s *ProductDBRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductDBRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductDBRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("product_id").Find(&products).Error
	return products, err
}

func (s *ProductDBRepo) GetProductStock(ctx context.Context, productID uint) (int, error) {
	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// AddProductStock 回補庫存，回傳更新後庫存
func (s *ProductDBRepo) AddProductStock(ctx context.Context, productID uint, quantity int) (int, error) {
	var currentStock int
	err := s.db.ExecTx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("product_id = ?", productID).
			Update("stock", gorm.Expr("stock + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}

		var product model.Product
		if err := tx.Select("stock").First(&product, "product_id = ?", productID).Error; err != nil {
			return err
		}
		currentStock = product.Stock
		return nil
	})
	if err != nil {
		return 0, err
	}
	return currentStock, nil
}

// DeductProductStock 扣除庫存，不足時整筆拒絕不做任何異動
// 錯誤:
//   - ErrProductNotFound: 商品不存在
//   - ErrProductStockNotEnough: 庫存不足
func (s *ProductDBRepo) DeductProductStock(ctx context.Context, productID uint, quantity int) (int, error) {
	var currentStock int
	err := s.db.ExecTx(ctx, func(tx *gorm.DB) error {
		// 先查詢當前庫存
		var product model.Product
		err := tx.First(&product, "product_id = ?", productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		// 檢查庫存是否足夠
		if product.Stock < quantity {
			return ErrProductStockNotEnough
		}

		// 其他instance可能已經先扣了，條件式更新失敗視為庫存不足
		res := tx.Model(&model.Product{}).
			Where("product_id = ? AND stock >= ?", productID, quantity).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductStockNotEnough
		}

		currentStock = product.Stock - quantity
		return nil
	})

	if err != nil {
		return 0, err
	}
	return currentStock, nil
}
