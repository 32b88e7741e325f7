package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrNotOrderOwner         = errors.New("order does not belong to user")
	ErrOrderNotPayable       = errors.New("order is not in a payable state")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentNotRefundable  = errors.New("payment is not refundable")
	ErrUnknownProviderStatus = errors.New("unknown provider payment status")
)

type IPaymentService interface {
	CreateIntent(ctx context.Context, userID uint, orderID string) (*model.Payment, error)
	ConfirmPayment(ctx context.Context, userID uint, paymentID uuid.UUID) (*model.Payment, error)
	HandleWebhookEvent(ctx context.Context, event *payment.Event) error
	Refund(ctx context.Context, orderID string) (*model.Payment, error)
}

type PaymentService struct {
	paymentRepo   db.IPaymentRepository
	orderRepo     db.IOrderRepository
	provider      payment.IProvider
	eventProducer producer.IOrderEventProducer
	currency      string
	logger        *zerolog.Logger
}

func NewPaymentService(paymentRepo db.IPaymentRepository, orderRepo db.IOrderRepository, provider payment.IProvider, eventProducer producer.IOrderEventProducer, currency string, logger *zerolog.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo:   paymentRepo,
		orderRepo:     orderRepo,
		provider:      provider,
		eventProducer: eventProducer,
		currency:      currency,
		logger:        logger,
	}
}

// CreateIntent 為PENDING訂單建立provider付款意圖
// 已有非終態付款時直接沿用其client secret, 不再呼叫provider:
// 結帳頁重新整理/重試不會產生第二個intent, 也就不會重複扣款
func (s *PaymentService) CreateIntent(ctx context.Context, userID uint, orderID string) (*model.Payment, error) {
	order, err := s.getOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		return nil, ErrOrderNotPayable
	}

	existing, err := s.paymentRepo.GetActivePaymentByOrderID(ctx, orderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, db.ErrPaymentNotFound) {
		return nil, fmt.Errorf("lookup active payment failed: %w", err)
	}

	intent, err := s.provider.CreateIntent(ctx, order.TotalAmount, s.currency, orderID)
	if err != nil {
		return nil, fmt.Errorf("create provider intent failed: %w", err)
	}

	p := &model.Payment{
		PaymentID:        uuid.New(),
		OrderID:          orderID,
		Amount:           order.TotalAmount,
		Currency:         s.currency,
		Status:           model.PaymentStatusPending,
		ProviderIntentID: intent.ID,
		ClientSecret:     intent.ClientSecret,
	}
	if err := s.paymentRepo.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("persist payment failed: %w", err)
	}
	return p, nil
}

// ConfirmPayment 客戶端回報provider SDK結果後的同步確認
// 不採信客戶端說法, 直接向provider查詢intent當前狀態再對帳
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID uint, paymentID uuid.UUID) (*model.Payment, error) {
	p, err := s.paymentRepo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, db.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if _, err := s.getOwnedOrder(ctx, userID, p.OrderID); err != nil {
		return nil, err
	}

	intent, err := s.provider.GetIntent(ctx, p.ProviderIntentID)
	if err != nil {
		return nil, fmt.Errorf("get provider intent failed: %w", err)
	}

	if _, err := s.applyProviderStatus(ctx, p, intent.Status); err != nil {
		return nil, err
	}

	return s.paymentRepo.GetPaymentByID(ctx, paymentID)
}

// HandleWebhookEvent 簽章已由handler驗過
// 未知事件類型直接忽略, provider可能隨時新增類型
func (s *PaymentService) HandleWebhookEvent(ctx context.Context, event *payment.Event) error {
	var providerStatus string
	switch event.Type {
	case payment.EventIntentSucceeded:
		providerStatus = payment.StatusSucceeded
	case payment.EventIntentProcessing:
		providerStatus = payment.StatusProcessing
	case payment.EventIntentCanceled:
		providerStatus = payment.StatusCanceled
	case payment.EventIntentFailed:
		providerStatus = payment.StatusRequiresPaymentMethod
	default:
		s.logger.Info().Str("event_type", event.Type).Msg("ignoring unhandled webhook event type")
		return nil
	}

	p, err := s.paymentRepo.GetPaymentByIntentID(ctx, event.Data.Object.ID)
	if err != nil {
		if errors.Is(err, db.ErrPaymentNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	_, err = s.applyProviderStatus(ctx, p, providerStatus)
	return err
}

// statusTransition provider狀態對應的本地轉移
type statusTransition struct {
	PaymentStatus model.PaymentStatus
	OrderStatus   model.OrderStatus // 空字串表示訂單狀態不變
	Action        db.InventoryAction
}

// mapProviderStatus 固定查表
// succeeded: 付款完成, 訂單確認, 預留轉實扣
// processing/requires_action: 付款處理中, 訂單不動, 庫存不動
// canceled: 付款取消, 訂單取消, 解除預留
// requires_payment_method (失敗): 付款失敗, 訂單取消, 解除預留
func mapProviderStatus(providerStatus string) (statusTransition, bool) {
	switch providerStatus {
	case payment.StatusSucceeded:
		return statusTransition{model.PaymentStatusCompleted, model.OrderStatusConfirmed, db.InventoryCommit}, true
	case payment.StatusProcessing, payment.StatusRequiresAction:
		return statusTransition{model.PaymentStatusProcessing, "", db.InventoryNone}, true
	case payment.StatusCanceled:
		return statusTransition{model.PaymentStatusCancelled, model.OrderStatusCancelled, db.InventoryRelease}, true
	case payment.StatusRequiresPaymentMethod:
		return statusTransition{model.PaymentStatusFailed, model.OrderStatusCancelled, db.InventoryRelease}, true
	default:
		return statusTransition{}, false
	}
}

// applyProviderStatus webhook與client confirm共用的對帳入口
// 冪等: 轉移閘門在repo交易內, 同一終態事件重放時applied為false, 不動庫存
func (s *PaymentService) applyProviderStatus(ctx context.Context, p *model.Payment, providerStatus string) (bool, error) {
	transition, ok := mapProviderStatus(providerStatus)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownProviderStatus, providerStatus)
	}

	applied, err := s.paymentRepo.ApplyStatusTx(ctx, p.PaymentID, transition.PaymentStatus, transition.OrderStatus, transition.Action)
	if err != nil {
		return false, fmt.Errorf("apply payment status failed: %w", err)
	}
	if !applied {
		s.logger.Info().
			Str("payment_id", p.PaymentID.String()).
			Str("provider_status", providerStatus).
			Msg("payment already reconciled, skipping")
		return false, nil
	}

	if transition.PaymentStatus.IsTerminal() {
		s.produceTerminalEvent(ctx, p.OrderID, transition.PaymentStatus)
	}
	return true, nil
}

func (s *PaymentService) produceTerminalEvent(ctx context.Context, orderID string, status model.PaymentStatus) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("load order for event failed")
		return
	}

	eventType := producer.EventPaymentFailed
	if status == model.PaymentStatusCompleted {
		eventType = producer.EventPaymentSucceeded
	}
	if err := s.eventProducer.ProduceOrderEvent(ctx, eventType, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("produce payment event failed")
	}
}

// Refund 管理端對已完成付款發起全額退款
// 不回補庫存, 退款後的庫存調整屬於倉管作業
func (s *PaymentService) Refund(ctx context.Context, orderID string) (*model.Payment, error) {
	p, err := s.paymentRepo.GetCompletedPaymentByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrPaymentNotFound) {
			return nil, ErrPaymentNotRefundable
		}
		return nil, err
	}

	refund, err := s.provider.CreateRefund(ctx, p.ProviderIntentID, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("create provider refund failed: %w", err)
	}

	if err := s.paymentRepo.MarkRefunded(ctx, p.PaymentID, refund.ID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, model.OrderStatusRefunded); err != nil {
		return nil, err
	}

	return s.paymentRepo.GetPaymentByID(ctx, p.PaymentID)
}

func (s *PaymentService) getOwnedOrder(ctx context.Context, userID uint, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

var _ IPaymentService = (*PaymentService)(nil)
