package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/rs/zerolog"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ICheckoutService interface {
	PlaceOrder(ctx context.Context, userID uint, lines []SubmittedLine, couponCode string, shippingAddressID, billingAddressID *uint) (*model.Order, error)
}

// CheckoutService 下單流程的編排:
// 計價/驗價 -> 可售預檢 -> 單一db交易建單 -> best effort發佈事件
type CheckoutService struct {
	orderRepo     db.IOrderRepository
	inventoryRepo db.IInventoryRepository
	pricing       IPricingService
	eventProducer producer.IOrderEventProducer
	logger        *zerolog.Logger
}

func NewCheckoutService(orderRepo db.IOrderRepository, inventoryRepo db.IInventoryRepository, pricing IPricingService, eventProducer producer.IOrderEventProducer, logger *zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		pricing:       pricing,
		eventProducer: eventProducer,
		logger:        logger,
	}
}

// PlaceOrder 建立訂單
// 所有商業規則檢查都在交易前完成, 交易內任何一步失敗整筆回滾:
// 不會留下部分訂單/部分預留, 購物車也不會被動到
// 可售預檢只是advisory, 真正的防線是交易內的條件式預留
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uint, lines []SubmittedLine, couponCode string, shippingAddressID, billingAddressID *uint) (*model.Order, error) {
	quote, err := s.pricing.BuildQuote(ctx, lines, couponCode)
	if err != nil {
		return nil, err
	}

	reservations := make([]db.StockReservation, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		r := db.StockReservation{
			ProductID: line.Product.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			Skip:      !line.Product.TrackInventory,
			Guarded:   !line.Product.AllowOutOfStock,
		}
		reservations = append(reservations, r)

		if r.Skip || !r.Guarded {
			continue
		}
		inv, err := s.inventoryRepo.GetInventory(ctx, r.ProductID, r.VariantID)
		if err != nil {
			if errors.Is(err, db.ErrInventoryNotFound) {
				return nil, ErrInsufficientStock
			}
			return nil, fmt.Errorf("get inventory failed: %w", err)
		}
		if inv.Available() < r.Quantity {
			return nil, ErrInsufficientStock
		}
	}

	order := &model.Order{
		OrderID:           util.GenerateOrderNumber(),
		UserID:            userID,
		Status:            model.OrderStatusPending,
		Subtotal:          quote.Subtotal,
		TaxAmount:         quote.Tax,
		ShippingAmount:    quote.Shipping,
		DiscountAmount:    quote.Discount,
		TotalAmount:       quote.Total,
		ShippingAddressID: shippingAddressID,
		BillingAddressID:  billingAddressID,
		OrderDate:         time.Now().UTC(),
	}
	if quote.Coupon != nil {
		order.CouponID = &quote.Coupon.CouponID
		order.CouponCode = quote.Coupon.Code
	}

	for _, line := range quote.Lines {
		snapshot, err := line.Snapshot.Marshal()
		if err != nil {
			return nil, fmt.Errorf("marshal product snapshot failed: %w", err)
		}
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			OrderID:         order.OrderID,
			ProductID:       line.Product.ProductID,
			VariantID:       line.VariantID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			TotalPrice:      line.TotalPrice,
			ProductSnapshot: snapshot,
		})
	}

	if err := s.orderRepo.CreateOrderTx(ctx, order, reservations); err != nil {
		if errors.Is(err, db.ErrStockGuardRejected) {
			return nil, ErrInsufficientStock
		}
		if errors.Is(err, db.ErrCouponExhausted) {
			return nil, ErrCouponInvalid
		}
		return nil, fmt.Errorf("create order failed: %w", err)
	}

	if err := s.eventProducer.ProduceOrderEvent(ctx, producer.EventOrderCreated, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.OrderID).Msg("produce order created event failed")
	}

	return order, nil
}

var _ ICheckoutService = (*CheckoutService)(nil)
