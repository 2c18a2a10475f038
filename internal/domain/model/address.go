package model

// 同一個user最多只有一筆 IsDefault = true，由 AddressService 維護
type Address struct {
	AddressID    uint   `gorm:"primaryKey" json:"address_id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	FullName     string `gorm:"not null;type:varchar(100)" json:"full_name"`
	AddressLine1 string `gorm:"not null;type:varchar(255)" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(255)" json:"address_line2"`
	City         string `gorm:"not null;type:varchar(100)" json:"city"`
	Region       string `gorm:"type:varchar(100)" json:"region"`
	PostalCode   string `gorm:"type:varchar(20)" json:"postal_code"`
	IsDefault    bool   `gorm:"not null;default:false" json:"is_default"`
	BaseModel
}
