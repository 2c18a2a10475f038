package db

import (
	"context"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	// 基礎操作
	GetDB() *gorm.DB
	InitMigrate() error

	IProductRepository
	IOrderRepository
	IAddressRepository
	IUserRepository
}

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID uint) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductStock(ctx context.Context, productID uint) (int, error)
	AddProductStock(ctx context.Context, productID uint, quantity int) (int, error)
	DeductProductStock(ctx context.Context, productID uint, quantity int) (int, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id uint) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	TransitionOrderStatus(ctx context.Context, id uint, from, to model.OrderStatus) (bool, error)
	UpdateOrderStatus(ctx context.Context, id uint, status model.OrderStatus) (int64, error)
}

// IAddressRepository Address 相關操作介面
type IAddressRepository interface {
	CreateAddress(ctx context.Context, address *model.Address) error
	UpdateAddress(ctx context.Context, address *model.Address) error
	DeleteAddress(ctx context.Context, id uint) error
	GetAddressByID(ctx context.Context, id uint) (*model.Address, error)
	GetAddressesByUserID(ctx context.Context, userID uint) ([]model.Address, error)
	GetDefaultAddress(ctx context.Context, userID uint) (*model.Address, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	dbDao *DbDao
	*ProductDBRepo
	*OrderRepo
	*AddressRepo
	*UserRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(conn *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(conn)
	return &UnifiedDBImpl{
		dbDao:         dbDao,
		ProductDBRepo: NewProductDBRepo(dbDao),
		OrderRepo:     NewOrderRepo(dbDao),
		AddressRepo:   NewAddressRepo(dbDao),
		UserRepo:      NewUserRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.dbDao.DB
}

var (
	_ UnifiedDB          = (*UnifiedDBImpl)(nil)
	_ IProductRepository = (*ProductDBRepo)(nil)
	_ IOrderRepository   = (*OrderRepo)(nil)
	_ IAddressRepository = (*AddressRepo)(nil)
	_ IUserRepository    = (*UserRepo)(nil)
)
