package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type AddressRepoError error

var (
	ErrAddressNotFound AddressRepoError = errors.New("address not found")
)

type IAddressRepository interface {
	CreateAddress(ctx context.Context, address *model.Address) error
	GetAddressByID(ctx context.Context, userID, addressID uint) (*model.Address, error)
	GetAddressesByUserID(ctx context.Context, userID uint) ([]model.Address, error)
	UpdateAddress(ctx context.Context, address *model.Address) error
	DeleteAddress(ctx context.Context, userID, addressID uint) error
}

type AddressRepo struct {
	db *DbDao
}

func NewAddressRepo(db *DbDao) *AddressRepo {
	return &AddressRepo{db: db}
}

func (s *AddressRepo) CreateAddress(ctx context.Context, address *model.Address) error {
	return s.db.WithContext(ctx).Create(address).Error
}

// 地址一律以擁有者範圍查詢, 避免跨用戶存取
func (s *AddressRepo) GetAddressByID(ctx context.Context, userID, addressID uint) (*model.Address, error) {
	var address model.Address
	err := s.db.WithContext(ctx).
		First(&address, "user_id = ? AND address_id = ?", userID, addressID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *AddressRepo) GetAddressesByUserID(ctx context.Context, userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("address_id").Find(&addresses).Error
	return addresses, err
}

func (s *AddressRepo) UpdateAddress(ctx context.Context, address *model.Address) error {
	return s.db.WithContext(ctx).Save(address).Error
}

func (s *AddressRepo) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND address_id = ?", userID, addressID).
		Delete(&model.Address{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

var _ IAddressRepository = (*AddressRepo)(nil)
