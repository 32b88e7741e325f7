package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo 以記憶體map頂替DB, 計價邏輯測試不需要postgres
type fakeProductRepo struct {
	products map[uint]*model.Product
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	f.products[product.ProductID] = product
	return nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, db.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, db.ErrProductNotFound
}

func (f *fakeProductRepo) GetVariantByID(ctx context.Context, id uint) (*model.ProductVariant, error) {
	for _, p := range f.products {
		for i := range p.Variants {
			if p.Variants[i].VariantID == id {
				return &p.Variants[i], nil
			}
		}
	}
	return nil, db.ErrVariantNotFound
}

func (f *fakeProductRepo) ListPublished(ctx context.Context, page, pageSize int, category string) ([]model.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	f.products[product.ProductID] = product
	return nil
}

func (f *fakeProductRepo) UpdateProductStatus(ctx context.Context, id uint, status model.ProductStatus) error {
	return nil
}

func (f *fakeProductRepo) CreateVariant(ctx context.Context, variant *model.ProductVariant) error {
	return nil
}

type fakeCouponRepo struct {
	coupons map[string]*model.Coupon
}

func (f *fakeCouponRepo) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	f.coupons[coupon.Code] = coupon
	return nil
}

func (f *fakeCouponRepo) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, db.ErrCouponNotFound
	}
	return c, nil
}

var (
	_ db.IProductRepository = (*fakeProductRepo)(nil)
	_ db.ICouponRepository  = (*fakeCouponRepo)(nil)
)

func newTestPricingService() (*PricingService, *fakeProductRepo, *fakeCouponRepo) {
	productRepo := &fakeProductRepo{products: map[uint]*model.Product{}}
	couponRepo := &fakeCouponRepo{coupons: map[string]*model.Coupon{}}
	// 稅率10%, 運費5, 滿50免運
	svc := NewPricingService(productRepo, couponRepo, 0.1, 5, 50)
	return svc, productRepo, couponRepo
}

func publishedProduct(id uint, price float64) *model.Product {
	return &model.Product{
		ProductID:      id,
		SKU:            "SKU-" + decimal.NewFromInt(int64(id)).String(),
		Name:           "Product",
		Price:          decimal.NewFromFloat(price),
		TrackInventory: true,
		Status:         model.ProductStatusPublished,
	}
}

func TestPriceLines(t *testing.T) {
	svc, repo, _ := newTestPricingService()
	repo.products[1] = publishedProduct(1, 19.99)

	priced, err := svc.PriceLines(context.Background(), []SubmittedLine{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromFloat(19.99)},
	})
	require.NoError(t, err)
	require.Len(t, priced, 1)
	require.True(t, priced[0].TotalPrice.Equal(decimal.NewFromFloat(39.98)))
	require.Equal(t, "SKU-1", priced[0].Snapshot.SKU)
}

func TestPriceLines_EpsilonTolerance(t *testing.T) {
	svc, repo, _ := newTestPricingService()
	repo.products[1] = publishedProduct(1, 19.99)

	tests := []struct {
		name      string
		submitted float64
		wantErr   error
	}{
		{"exact", 19.99, nil},
		{"within epsilon low", 19.98, nil},
		{"within epsilon high", 20.00, nil},
		{"stale price", 17.99, ErrPriceMismatch},
		{"too high", 20.05, ErrPriceMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PriceLines(context.Background(), []SubmittedLine{
				{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromFloat(tt.submitted)},
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPriceLines_Validation(t *testing.T) {
	svc, repo, _ := newTestPricingService()
	repo.products[1] = publishedProduct(1, 10)
	draft := publishedProduct(2, 10)
	draft.Status = model.ProductStatusDraft
	repo.products[2] = draft

	_, err := svc.PriceLines(context.Background(), []SubmittedLine{
		{ProductID: 1, Quantity: 0, UnitPrice: decimal.NewFromInt(10)},
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.PriceLines(context.Background(), []SubmittedLine{
		{ProductID: 99, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.PriceLines(context.Background(), []SubmittedLine{
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	})
	require.ErrorIs(t, err, ErrProductNotPublished)
}

func TestPriceLines_VariantPrice(t *testing.T) {
	svc, repo, _ := newTestPricingService()
	p := publishedProduct(1, 10)
	p.Variants = []model.ProductVariant{
		{VariantID: 7, ProductID: 1, SKU: "SKU-1-L", Name: "L", Price: decimal.NewFromInt(12)},
	}
	repo.products[1] = p

	variantID := uint(7)
	priced, err := svc.PriceLines(context.Background(), []SubmittedLine{
		{ProductID: 1, VariantID: &variantID, Quantity: 1, UnitPrice: decimal.NewFromInt(12)},
	})
	require.NoError(t, err)
	require.True(t, priced[0].UnitPrice.Equal(decimal.NewFromInt(12)))
	require.Equal(t, "SKU-1-L", priced[0].Snapshot.VariantSKU)

	missing := uint(99)
	_, err = svc.PriceLines(context.Background(), []SubmittedLine{
		{ProductID: 1, VariantID: &missing, Quantity: 1, UnitPrice: decimal.NewFromInt(12)},
	})
	require.ErrorIs(t, err, ErrVariantNotFound)
}

func validCoupon(ct model.CouponType, value float64) *model.Coupon {
	return &model.Coupon{
		CouponID:  1,
		Code:      "TEST",
		Type:      ct,
		Value:     decimal.NewFromFloat(value),
		IsActive:  true,
		ValidFrom: time.Now().Add(-time.Hour),
		ValidTo:   time.Now().Add(time.Hour),
	}
}

func TestEvaluateCoupon(t *testing.T) {
	svc, _, _ := newTestPricingService()
	now := time.Now()
	subtotal := decimal.NewFromInt(100)
	shipping := decimal.NewFromInt(5)

	t.Run("percentage", func(t *testing.T) {
		discount, err := svc.EvaluateCoupon(validCoupon(model.CouponTypePercentage, 10), subtotal, shipping, now)
		require.NoError(t, err)
		require.True(t, discount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("percentage capped by max discount", func(t *testing.T) {
		c := validCoupon(model.CouponTypePercentage, 50)
		cap := decimal.NewFromInt(20)
		c.MaxDiscount = &cap
		discount, err := svc.EvaluateCoupon(c, subtotal, shipping, now)
		require.NoError(t, err)
		require.True(t, discount.Equal(cap))
	})

	t.Run("fixed amount", func(t *testing.T) {
		discount, err := svc.EvaluateCoupon(validCoupon(model.CouponTypeFixedAmount, 15), subtotal, shipping, now)
		require.NoError(t, err)
		require.True(t, discount.Equal(decimal.NewFromInt(15)))
	})

	t.Run("fixed amount capped by subtotal", func(t *testing.T) {
		discount, err := svc.EvaluateCoupon(validCoupon(model.CouponTypeFixedAmount, 500), subtotal, shipping, now)
		require.NoError(t, err)
		require.True(t, discount.Equal(subtotal))
	})

	t.Run("free shipping", func(t *testing.T) {
		discount, err := svc.EvaluateCoupon(validCoupon(model.CouponTypeFreeShipping, 0), subtotal, shipping, now)
		require.NoError(t, err)
		require.True(t, discount.Equal(shipping))
	})

	t.Run("inactive", func(t *testing.T) {
		c := validCoupon(model.CouponTypePercentage, 10)
		c.IsActive = false
		_, err := svc.EvaluateCoupon(c, subtotal, shipping, now)
		require.ErrorIs(t, err, ErrCouponInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		c := validCoupon(model.CouponTypePercentage, 10)
		c.ValidTo = now.Add(-time.Minute)
		_, err := svc.EvaluateCoupon(c, subtotal, shipping, now)
		require.ErrorIs(t, err, ErrCouponInvalid)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		c := validCoupon(model.CouponTypePercentage, 10)
		c.UsageLimit = 3
		c.UsageCount = 3
		_, err := svc.EvaluateCoupon(c, subtotal, shipping, now)
		require.ErrorIs(t, err, ErrCouponInvalid)
	})

	t.Run("below min purchase", func(t *testing.T) {
		c := validCoupon(model.CouponTypePercentage, 10)
		minPurchase := decimal.NewFromInt(200)
		c.MinPurchase = &minPurchase
		_, err := svc.EvaluateCoupon(c, subtotal, shipping, now)
		require.ErrorIs(t, err, ErrCouponInvalid)
	})
}

func TestBuildQuote(t *testing.T) {
	svc, repo, coupons := newTestPricingService()
	repo.products[1] = publishedProduct(1, 20)
	coupons.coupons["TEN"] = validCoupon(model.CouponTypeFixedAmount, 10)
	coupons.coupons["TEN"].Code = "TEN"

	// 小計40 < 免運門檻50: 運費5, 稅4, 折10 => 39
	quote, err := svc.BuildQuote(context.Background(), []SubmittedLine{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
	}, "TEN")
	require.NoError(t, err)
	require.True(t, quote.Subtotal.Equal(decimal.NewFromInt(40)))
	require.True(t, quote.Shipping.Equal(decimal.NewFromInt(5)))
	require.True(t, quote.Tax.Equal(decimal.NewFromInt(4)))
	require.True(t, quote.Discount.Equal(decimal.NewFromInt(10)))
	require.True(t, quote.Total.Equal(decimal.NewFromInt(39)))
	require.NotNil(t, quote.Coupon)

	// Total = Subtotal + Tax + Shipping - Discount
	require.True(t, quote.Total.Equal(
		quote.Subtotal.Add(quote.Tax).Add(quote.Shipping).Sub(quote.Discount)))
}

func TestBuildQuote_FreeShippingThreshold(t *testing.T) {
	svc, repo, _ := newTestPricingService()
	repo.products[1] = publishedProduct(1, 30)

	quote, err := svc.BuildQuote(context.Background(), []SubmittedLine{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(30)},
	}, "")
	require.NoError(t, err)
	require.True(t, quote.Shipping.IsZero())
}

func TestBuildQuote_UnknownCoupon(t *testing.T) {
	svc, repo, _ := newTestPricingService()
	repo.products[1] = publishedProduct(1, 30)

	_, err := svc.BuildQuote(context.Background(), []SubmittedLine{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
	}, "NOPE")
	require.ErrorIs(t, err, ErrCouponInvalid)
}

func TestBuildQuote_TotalNeverNegative(t *testing.T) {
	svc, repo, coupons := newTestPricingService()
	repo.products[1] = publishedProduct(1, 2)
	big := validCoupon(model.CouponTypeFixedAmount, 100)
	big.Code = "BIG"
	coupons.coupons["BIG"] = big

	quote, err := svc.BuildQuote(context.Background(), []SubmittedLine{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(2)},
	}, "BIG")
	require.NoError(t, err)
	require.False(t, quote.Total.IsNegative())
}
