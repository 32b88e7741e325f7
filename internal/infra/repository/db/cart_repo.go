package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type CartRepoError error

var (
	ErrCartItemNotFound CartRepoError = errors.New("cart item not found")
)

type ICartRepository interface {
	GetCartItems(ctx context.Context, userID uint) ([]model.CartItem, error)
	GetCartItem(ctx context.Context, userID, productID uint, variantID *uint) (*model.CartItem, error)
	UpsertCartItem(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, cartItemID uint, quantity int) error
	DeleteCartItem(ctx context.Context, userID, cartItemID uint) error
	ClearCart(ctx context.Context, userID uint) error
}

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

func (s *CartRepo) GetCartItems(ctx context.Context, userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("cart_item_id").Find(&items).Error
	return items, err
}

func (s *CartRepo) GetCartItem(ctx context.Context, userID, productID uint, variantID *uint) (*model.CartItem, error) {
	var item model.CartItem
	q := s.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}
	err := q.First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertCartItem 同一(user, product, variant)已存在時累加數量, 否則新增一列
func (s *CartRepo) UpsertCartItem(ctx context.Context, item *model.CartItem) error {
	existing, err := s.GetCartItem(ctx, item.UserID, item.ProductID, item.VariantID)
	if err != nil {
		if errors.Is(err, ErrCartItemNotFound) {
			return s.db.WithContext(ctx).Create(item).Error
		}
		return err
	}

	return s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_item_id = ?", existing.CartItemID).
		Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
}

func (s *CartRepo) UpdateQuantity(ctx context.Context, cartItemID uint, quantity int) error {
	result := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_item_id = ?", cartItemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartRepo) DeleteCartItem(ctx context.Context, userID, cartItemID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND cart_item_id = ?", userID, cartItemID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartRepo) ClearCart(ctx context.Context, userID uint) error {
	return clearCartTx(s.db.WithContext(ctx), userID)
}

// clearCartTx 供下單交易內使用
func clearCartTx(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

var _ ICartRepository = (*CartRepo)(nil)
