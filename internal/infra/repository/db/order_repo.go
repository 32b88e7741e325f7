package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type OrderRepoError error

var (
	ErrOrderNotFound OrderRepoError = errors.New("order not found")
)

// StockReservation 一條訂單明細對應的庫存預留
// Skip為true時不動庫存 (不追蹤庫存的商品)
// Guarded為true時預留附帶可售數量條件
type StockReservation struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	Guarded   bool
	Skip      bool
}

type IOrderRepository interface {
	CreateOrderTx(ctx context.Context, order *model.Order, reservations []StockReservation) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint, page, pageSize int) ([]model.Order, int64, error)
	GetAllOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	CancelOrderTx(ctx context.Context, order *model.Order) error
}

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrderTx 下單交易, 整筆成功或整筆回滾:
//  1. 寫入Order與OrderItems (快照已由service凍結在items上)
//  2. 逐條預留庫存 (條件式increment, 可售不足即中止)
//  3. 有用券時條件式消耗一次使用次數
//  4. 清空該用戶購物車
func (s *OrderRepo) CreateOrderTx(ctx context.Context, order *model.Order, reservations []StockReservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, r := range reservations {
			if r.Skip {
				continue
			}
			if err := reserveStockTx(tx, r.ProductID, r.VariantID, r.Quantity, r.Guarded); err != nil {
				return err
			}
		}

		if order.CouponID != nil {
			if err := redeemCouponTx(tx, *order.CouponID); err != nil {
				return err
			}
		}

		return clearCartTx(tx, order.UserID)
	})
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize
	query := s.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("OrderItems").
		Order("order_date DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (s *OrderRepo) GetAllOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize
	query := s.db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("OrderItems").
		Order("order_date DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CancelOrderTx 取消尚未付款的訂單並解除其庫存預留
// 只允許從PENDING取消, 條件式update避免與付款對帳競態
func (s *OrderRepo) CancelOrderTx(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("order_id = ? AND status = ?", order.OrderID, model.OrderStatusPending).
			Update("status", model.OrderStatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}

		return releaseOrderItemsTx(tx, order.OrderItems)
	})
}

// releaseOrderItemsTx 解除一張訂單全部明細的預留
// 不追蹤庫存的明細沒有庫存列, guard拒絕時視為已處理過
func releaseOrderItemsTx(tx *gorm.DB, items []model.OrderItem) error {
	for _, item := range items {
		err := releaseStockTx(tx, item.ProductID, item.VariantID, item.Quantity)
		if err != nil && !errors.Is(err, ErrStockGuardRejected) {
			return err
		}
	}
	return nil
}

var _ IOrderRepository = (*OrderRepo)(nil)
