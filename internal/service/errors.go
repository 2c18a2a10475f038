package service

import (
	"errors"

	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/redis_repo"
)

// 直接沿用 repository 的 sentinel，errors.Is 不需要轉換
var (
	ErrProductNotFound   = db.ErrProductNotFound
	ErrInsufficientStock = db.ErrProductStockNotEnough
	ErrOrderNotFound     = db.ErrOrderNotFound
	ErrAddressNotFound   = db.ErrAddressNotFound
	ErrUserNotFound      = db.ErrUserNotFound
	ErrCartConflict      = redis_repo.ErrCartConflict
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidSession  = errors.New("session id is required")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidUser     = errors.New("invalid user")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrEmailTaken      = errors.New("email already registered")

	ErrEmptyCart           = errors.New("cart is empty")
	ErrNoShippingAddress   = errors.New("no shipping address")
	ErrConflictingVariants = errors.New("cart holds the same product in more than one variant")
	// ErrCheckoutFailed 扣庫存失敗，會再包 ErrInsufficientStock 或 ErrProductNotFound
	ErrCheckoutFailed = errors.New("checkout failed")
	// ErrOrderNotPlaced 庫存已回補，訂單沒有寫入
	ErrOrderNotPlaced = errors.New("could not place order")
)
