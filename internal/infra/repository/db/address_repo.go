package db

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAddressNotFound = errors.New("address not found")

// 預設地址唯一性由應用層維護，不是資料庫constraint
// 先鎖住user再清掉其他預設並寫入，同一user的寫入在多個instance間也會排隊
type AddressRepo struct {
	db *DbDao
}

func NewAddressRepo(db *DbDao) *AddressRepo {
	return &AddressRepo{db: db}
}

// lockOwner SELECT ... FOR UPDATE 鎖住user，直到transaction結束
// sqlite 不支援 row lock，會略過 FOR UPDATE
func lockOwner(tx *gorm.DB, userID uint) error {
	err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("user_id").
		First(&model.User{}, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// unsetDefaults 清除user其他預設地址，excludeID為0時不排除
func unsetDefaults(tx *gorm.DB, userID, excludeID uint) error {
	q := tx.Model(&model.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if excludeID != 0 {
		q = q.Where("address_id <> ?", excludeID)
	}
	return q.Update("is_default", false).Error
}

func (s *AddressRepo) CreateAddress(ctx context.Context, address *model.Address) error {
	return s.db.ExecTx(ctx, func(tx *gorm.DB) error {
		if err := lockOwner(tx, address.UserID); err != nil {
			return err
		}
		if address.IsDefault {
			if err := unsetDefaults(tx, address.UserID, 0); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

// UpdateAddress 地址所屬user不會改變
func (s *AddressRepo) UpdateAddress(ctx context.Context, address *model.Address) error {
	return s.db.ExecTx(ctx, func(tx *gorm.DB) error {
		var existing model.Address
		err := tx.First(&existing, "address_id = ?", address.AddressID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		if err != nil {
			return err
		}
		if err := lockOwner(tx, existing.UserID); err != nil {
			return err
		}

		if address.IsDefault {
			if err := unsetDefaults(tx, existing.UserID, existing.AddressID); err != nil {
				return err
			}
		}

		address.UserID = existing.UserID
		address.CreatedAt = existing.CreatedAt
		address.UpdatedAt = time.Now()
		return tx.Model(&existing).
			Select("full_name", "address_line1", "address_line2", "city", "region", "postal_code", "is_default", "updated_at").
			Updates(address).Error
	})
}

// DeleteAddress 不存在時不回傳錯誤
func (s *AddressRepo) DeleteAddress(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Where("address_id = ?", id).Delete(&model.Address{}).Error
}

func (s *AddressRepo) GetAddressByID(ctx context.Context, id uint) (*model.Address, error) {
	var address model.Address
	err := s.db.WithContext(ctx).First(&address, "address_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// GetAddressesByUserID 預設地址在前，其餘依address_id遞增
func (s *AddressRepo) GetAddressesByUserID(ctx context.Context, userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("address_id ASC").
		Find(&addresses).Error
	return addresses, err
}

func (s *AddressRepo) GetDefaultAddress(ctx context.Context, userID uint) (*model.Address, error) {
	var address model.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		Order("address_id ASC").
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}
