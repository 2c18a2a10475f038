package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing" // 建立後的初始狀態
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled" // 只能由 Processing 轉入
	OrderStatusRefunded   OrderStatus = "Refunded"
)

var orderStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus 不分大小寫
func ParseOrderStatus(v string) (OrderStatus, error) {
	for _, s := range orderStatuses {
		if strings.EqualFold(strings.TrimSpace(v), string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, v)
}

// 訂單header與OrderItems必須在同一個transaction寫入
type Order struct {
	OrderID           uint            `gorm:"primaryKey" json:"order_id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	User              *User           `json:"user,omitempty"`
	ShippingAddressID *uint           `json:"shipping_address_id,omitempty"`
	Total             decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total"`
	OrderDate         time.Time       `gorm:"not null;index" json:"order_date"`
	Status            OrderStatus     `gorm:"not null;type:varchar(20)" json:"status"`
	OrderItems        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	BaseModel
}

// 主鍵 (order_id, product_id)，UnitPrice 為下單當下價格
type OrderItem struct {
	OrderID        uint            `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ProductID      uint            `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Product        *Product        `json:"product,omitempty"`
	Quantity       int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	SelectedColour Colour          `gorm:"type:varchar(20)" json:"selected_colour,omitempty"`
	SelectedSize   Size            `gorm:"type:varchar(10)" json:"selected_size,omitempty"`
	BaseModel
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
