package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
)

var (
	ErrAddressNotFound = errors.New("address not found")
)

type IAddressService interface {
	CreateAddress(ctx context.Context, address *model.Address) (*model.Address, error)
	GetAddress(ctx context.Context, userID, addressID uint) (*model.Address, error)
	ListAddresses(ctx context.Context, userID uint) ([]model.Address, error)
	UpdateAddress(ctx context.Context, address *model.Address) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uint) error
}

type AddressService struct {
	addressRepo db.IAddressRepository
}

func NewAddressService(addressRepo db.IAddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

func (s *AddressService) CreateAddress(ctx context.Context, address *model.Address) (*model.Address, error) {
	if err := s.addressRepo.CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AddressService) GetAddress(ctx context.Context, userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.GetAddressByID(ctx, userID, addressID)
	if errors.Is(err, db.ErrAddressNotFound) {
		return nil, ErrAddressNotFound
	}
	return address, err
}

func (s *AddressService) ListAddresses(ctx context.Context, userID uint) ([]model.Address, error) {
	return s.addressRepo.GetAddressesByUserID(ctx, userID)
}

// UpdateAddress 先以擁有者範圍查一次, 避免Save越權寫入
func (s *AddressService) UpdateAddress(ctx context.Context, address *model.Address) (*model.Address, error) {
	if _, err := s.GetAddress(ctx, address.UserID, address.AddressID); err != nil {
		return nil, err
	}
	if err := s.addressRepo.UpdateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	err := s.addressRepo.DeleteAddress(ctx, userID, addressID)
	if errors.Is(err, db.ErrAddressNotFound) {
		return ErrAddressNotFound
	}
	return err
}

var _ IAddressService = (*AddressService)(nil)
