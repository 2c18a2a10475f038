package service

import (
	"context"
	"strings"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
)

// AddressService 每個user最多一個預設地址
// 清除舊預設與寫入在同一個transaction，由 repository 負責
type AddressService struct {
	addressRepo db.IAddressRepository
}

func NewAddressService(addressRepo db.IAddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

func validateAddress(address *model.Address) error {
	if address == nil ||
		strings.TrimSpace(address.FullName) == "" ||
		strings.TrimSpace(address.AddressLine1) == "" ||
		strings.TrimSpace(address.City) == "" {
		return ErrInvalidAddress
	}
	return nil
}

func (s *AddressService) AddAddress(ctx context.Context, address *model.Address) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	if address.UserID == 0 {
		return ErrInvalidAddress
	}
	return s.addressRepo.CreateAddress(ctx, address)
}

// UpdateAddress 所屬user沿用資料庫內的值
func (s *AddressService) UpdateAddress(ctx context.Context, address *model.Address) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	return s.addressRepo.UpdateAddress(ctx, address)
}

// DeleteAddress 不存在時不報錯，也不會自動指定新的預設地址
func (s *AddressService) DeleteAddress(ctx context.Context, addressID uint) error {
	return s.addressRepo.DeleteAddress(ctx, addressID)
}

// GetUserAddresses 預設地址在前，其餘依id遞增
func (s *AddressService) GetUserAddresses(ctx context.Context, userID uint) ([]model.Address, error) {
	return s.addressRepo.GetAddressesByUserID(ctx, userID)
}

func (s *AddressService) GetAddress(ctx context.Context, addressID uint) (*model.Address, error) {
	return s.addressRepo.GetAddressByID(ctx, addressID)
}

func (s *AddressService) GetDefaultAddress(ctx context.Context, userID uint) (*model.Address, error) {
	return s.addressRepo.GetDefaultAddress(ctx, userID)
}
