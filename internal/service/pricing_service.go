package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotPublished = errors.New("product is not published")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrPriceMismatch       = errors.New("submitted price does not match current price")
	ErrCouponInvalid       = errors.New("coupon is invalid or expired")
)

// priceEpsilon 客戶端提交價與權威價的容許誤差
var priceEpsilon = decimal.NewFromFloat(0.01)

// SubmittedLine 客戶端提交的一條結帳明細
// UnitPrice是客戶端看到的價格, 只用來驗證, 不會被採信
type SubmittedLine struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// PricedLine 以catalog權威價重算過的明細
type PricedLine struct {
	Product    *model.Product
	VariantID  *uint
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Snapshot   model.ProductSnapshot
}

// Quote 一次結帳的完整計價結果
// Total = Subtotal + Tax + Shipping - Discount, 不會為負
type Quote struct {
	Lines    []PricedLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Coupon   *model.Coupon
}

type IPricingService interface {
	PriceLines(ctx context.Context, lines []SubmittedLine) ([]PricedLine, error)
	EvaluateCoupon(coupon *model.Coupon, subtotal, shipping decimal.Decimal, now time.Time) (decimal.Decimal, error)
	ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error)
	BuildQuote(ctx context.Context, lines []SubmittedLine, couponCode string) (*Quote, error)
}

type PricingService struct {
	productRepo db.IProductRepository
	couponRepo  db.ICouponRepository

	taxRate               decimal.Decimal
	shippingFee           decimal.Decimal
	freeShippingThreshold decimal.Decimal
}

func NewPricingService(productRepo db.IProductRepository, couponRepo db.ICouponRepository, taxRate, shippingFee, freeShippingThreshold float64) *PricingService {
	return &PricingService{
		productRepo:           productRepo,
		couponRepo:            couponRepo,
		taxRate:               decimal.NewFromFloat(taxRate),
		shippingFee:           decimal.NewFromFloat(shippingFee),
		freeShippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
	}
}

// PriceLines 重新取得權威單價並驗證客戶端提交價
// 任一條明細價差超過epsilon即整筆拒絕
func (s *PricingService) PriceLines(ctx context.Context, lines []SubmittedLine) ([]PricedLine, error) {
	priced := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, db.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("get product failed: %w", err)
		}
		if !product.IsPublished() {
			return nil, ErrProductNotPublished
		}

		unitPrice := product.Price
		snapshot := model.ProductSnapshot{
			SKU:  product.SKU,
			Name: product.Name,
		}

		if line.VariantID != nil {
			variant := findVariant(product, *line.VariantID)
			if variant == nil {
				return nil, ErrVariantNotFound
			}
			unitPrice = variant.Price
			snapshot.VariantSKU = variant.SKU
			snapshot.VariantName = variant.Name
		}
		snapshot.UnitPrice = unitPrice

		if line.UnitPrice.Sub(unitPrice).Abs().GreaterThan(priceEpsilon) {
			return nil, ErrPriceMismatch
		}

		priced = append(priced, PricedLine{
			Product:    product,
			VariantID:  line.VariantID,
			Quantity:   line.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Snapshot:   snapshot,
		})
	}
	return priced, nil
}

func findVariant(product *model.Product, variantID uint) *model.ProductVariant {
	for i := range product.Variants {
		if product.Variants[i].VariantID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}

// EvaluateCoupon 計算折扣金額
// PERCENTAGE有MaxDiscount時以其封頂, FIXED_AMOUNT以小計封頂,
// FREE_SHIPPING折抵的正好是算出來的運費
func (s *PricingService) EvaluateCoupon(coupon *model.Coupon, subtotal, shipping decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !coupon.IsRedeemable(now) {
		return decimal.Zero, ErrCouponInvalid
	}
	if coupon.MinPurchase != nil && subtotal.LessThan(*coupon.MinPurchase) {
		return decimal.Zero, ErrCouponInvalid
	}

	switch coupon.Type {
	case model.CouponTypePercentage:
		discount := subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100)).Round(2)
		if coupon.MaxDiscount != nil && discount.GreaterThan(*coupon.MaxDiscount) {
			discount = *coupon.MaxDiscount
		}
		return discount, nil
	case model.CouponTypeFixedAmount:
		if coupon.Value.GreaterThan(subtotal) {
			return subtotal, nil
		}
		return coupon.Value, nil
	case model.CouponTypeFreeShipping:
		return shipping, nil
	default:
		return decimal.Zero, ErrCouponInvalid
	}
}

// ValidateCoupon 以目前小計試算折扣, 不會扣使用次數
func (s *PricingService) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	coupon, err := s.couponRepo.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, db.ErrCouponNotFound) {
			return nil, decimal.Zero, ErrCouponInvalid
		}
		return nil, decimal.Zero, fmt.Errorf("get coupon failed: %w", err)
	}

	shipping := s.shippingFee
	if subtotal.GreaterThanOrEqual(s.freeShippingThreshold) {
		shipping = decimal.Zero
	}
	discount, err := s.EvaluateCoupon(coupon, subtotal, shipping, time.Now().UTC())
	if err != nil {
		return nil, decimal.Zero, err
	}
	return coupon, discount, nil
}

// BuildQuote 一次結帳的完整計價
func (s *PricingService) BuildQuote(ctx context.Context, lines []SubmittedLine, couponCode string) (*Quote, error) {
	priced, err := s.PriceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range priced {
		subtotal = subtotal.Add(line.TotalPrice)
	}

	shipping := s.shippingFee
	if subtotal.GreaterThanOrEqual(s.freeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(s.taxRate).Round(2)

	discount := decimal.Zero
	var coupon *model.Coupon
	if couponCode != "" {
		coupon, err = s.couponRepo.GetCouponByCode(ctx, couponCode)
		if err != nil {
			if errors.Is(err, db.ErrCouponNotFound) {
				return nil, ErrCouponInvalid
			}
			return nil, fmt.Errorf("get coupon failed: %w", err)
		}
		discount, err = s.EvaluateCoupon(coupon, subtotal, shipping, time.Now().UTC())
		if err != nil {
			return nil, err
		}
	}

	total := subtotal.Add(tax).Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return &Quote{
		Lines:    priced,
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    total,
		Coupon:   coupon,
	}, nil
}

var _ IPricingService = (*PricingService)(nil)
