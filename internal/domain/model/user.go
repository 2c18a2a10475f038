package model

type User struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Name      string    `gorm:"not null;type:varchar(100)" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null;type:varchar(255)" json:"email"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	BaseModel
}
