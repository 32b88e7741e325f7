package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type CouponRepoError error

var (
	ErrCouponNotFound  CouponRepoError = errors.New("coupon not found")
	ErrCouponExhausted CouponRepoError = errors.New("coupon usage limit reached")
)

type ICouponRepository interface {
	CreateCoupon(ctx context.Context, coupon *model.Coupon) error
	GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error)
}

type CouponRepo struct {
	db *DbDao
}

func NewCouponRepo(db *DbDao) *CouponRepo {
	return &CouponRepo{db: db}
}

func (s *CouponRepo) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	return s.db.WithContext(ctx).Create(coupon).Error
}

func (s *CouponRepo) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := s.db.WithContext(ctx).First(&coupon, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// redeemCouponTx 條件式increment使用次數
// 0列更新代表併發下已被用完, 交易應整筆回滾
func redeemCouponTx(tx *gorm.DB, couponID uint) error {
	result := tx.Model(&model.Coupon{}).
		Where("coupon_id = ?", couponID).
		Where("usage_limit = 0 OR usage_count < usage_limit").
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}

var _ ICouponRepository = (*CouponRepo)(nil)
