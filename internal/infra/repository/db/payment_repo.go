package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepoError error

var (
	ErrPaymentNotFound PaymentRepoError = errors.New("payment not found")
)

// InventoryAction 對帳時要對庫存做的動作
type InventoryAction int

const (
	InventoryNone InventoryAction = iota
	// InventoryCommit 預留轉實扣: quantity與reserved_quantity同減
	InventoryCommit
	// InventoryRelease 僅解除預留
	InventoryRelease
)

type IPaymentRepository interface {
	CreatePayment(ctx context.Context, payment *model.Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (*model.Payment, error)
	GetActivePaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	GetCompletedPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	ApplyStatusTx(ctx context.Context, paymentID uuid.UUID, payStatus model.PaymentStatus, orderStatus model.OrderStatus, action InventoryAction) (bool, error)
	MarkRefunded(ctx context.Context, paymentID uuid.UUID, refundID string) error
}

type PaymentRepo struct {
	db *DbDao
}

func NewPaymentRepo(db *DbDao) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (s *PaymentRepo) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

func (s *PaymentRepo) GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).First(&payment, "payment_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentRepo) GetPaymentByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).First(&payment, "provider_intent_id = ?", intentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetActivePaymentByOrderID 非終態 (PENDING/PROCESSING) 付款
// 同一張訂單重試結帳頁時沿用這筆, 避免重複建立provider intent
func (s *PaymentRepo) GetActivePaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID,
			[]model.PaymentStatus{model.PaymentStatusPending, model.PaymentStatusProcessing}).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentRepo) GetCompletedPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, model.PaymentStatusCompleted).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ApplyStatusTx 付款對帳交易
// 付款狀態轉移以條件式update做閘門: 只有仍處於非終態的付款能被轉移
// 0列更新代表同一事件已被另一條路徑 (webhook或client confirm) 套用過,
// 整筆交易成為no-op, 庫存不會二次commit/release
// 回傳值applied表示本次呼叫是否實際造成轉移
func (s *PaymentRepo) ApplyStatusTx(ctx context.Context, paymentID uuid.UUID, payStatus model.PaymentStatus, orderStatus model.OrderStatus, action InventoryAction) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guard := []model.PaymentStatus{model.PaymentStatusPending, model.PaymentStatusProcessing}
		result := tx.Model(&model.Payment{}).
			Where("payment_id = ? AND status IN ?", paymentID, guard).
			Update("status", payStatus)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		var payment model.Payment
		if err := tx.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
			return err
		}

		if orderStatus != "" {
			if err := tx.Model(&model.Order{}).
				Where("order_id = ?", payment.OrderID).
				Update("status", orderStatus).Error; err != nil {
				return err
			}
		}

		if action == InventoryNone {
			return nil
		}

		var items []model.OrderItem
		if err := tx.Where("order_id = ?", payment.OrderID).Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			var err error
			switch action {
			case InventoryCommit:
				err = commitStockTx(tx, item.ProductID, item.VariantID, item.Quantity)
			case InventoryRelease:
				err = releaseStockTx(tx, item.ProductID, item.VariantID, item.Quantity)
			}
			// 不追蹤庫存的明細沒有預留可處理
			if err != nil && !errors.Is(err, ErrStockGuardRejected) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (s *PaymentRepo) MarkRefunded(ctx context.Context, paymentID uuid.UUID, refundID string) error {
	result := s.db.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_id = ? AND status = ?", paymentID, model.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"status":             model.PaymentStatusRefunded,
			"provider_refund_id": refundID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

var _ IPaymentRepository = (*PaymentRepo)(nil)
