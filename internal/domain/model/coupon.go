package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponTypePercentage   CouponType = "PERCENTAGE"
	CouponTypeFixedAmount  CouponType = "FIXED_AMOUNT"
	CouponTypeFreeShipping CouponType = "FREE_SHIPPING"
)

type Coupon struct {
	CouponID    uint             `gorm:"primaryKey"`
	Code        string           `gorm:"not null;type:varchar(50);unique"`
	Type        CouponType       `gorm:"not null;type:varchar(20)"`
	Value       decimal.Decimal  `gorm:"not null;type:decimal(10,2)"` // PERCENTAGE時為百分比數值
	MaxDiscount *decimal.Decimal `gorm:"type:decimal(10,2)"`
	MinPurchase *decimal.Decimal `gorm:"type:decimal(10,2)"`
	UsageLimit  int              `gorm:"not null;default:0"` // 0表示不限次數
	UsageCount  int              `gorm:"not null;default:0"`
	IsActive    bool             `gorm:"not null;default:true"`
	ValidFrom   time.Time        `gorm:"not null"`
	ValidTo     time.Time        `gorm:"not null"`
	BaseModel
}

// IsRedeemable 評估當下是否可用
// 注意: 使用次數的最終防線在repo的條件式increment, 這裡只是預檢
func (c *Coupon) IsRedeemable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return false
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return false
	}
	return true
}
