package model

import "github.com/shopspring/decimal"

// 單一庫存計數器，不區分顏色尺寸
type Product struct {
	ProductID uint            `gorm:"primaryKey" json:"product_id"`
	Name      string          `gorm:"not null;type:varchar(255)" json:"name"`
	Category  string          `gorm:"type:varchar(100)" json:"category"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Stock     int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"`
	BaseModel
}
