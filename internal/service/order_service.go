package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidStatusChange = errors.New("invalid order status transition")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

// 管理端允許的狀態轉移
// 付款對帳負責PENDING->CONFIRMED/CANCELLED, 這裡只管出貨後續
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusConfirmed:  {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:    {model.OrderStatusDelivered},
}

type IOrderService interface {
	GetOrder(ctx context.Context, userID uint, isAdmin bool, orderID string) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID uint, page, pageSize int) ([]model.Order, int64, error)
	ListAllOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, userID uint, orderID string) (*model.Order, error)
}

type OrderService struct {
	orderRepo     db.IOrderRepository
	eventProducer producer.IOrderEventProducer
	logger        *zerolog.Logger
}

func NewOrderService(orderRepo db.IOrderRepository, eventProducer producer.IOrderEventProducer, logger *zerolog.Logger) *OrderService {
	return &OrderService{orderRepo: orderRepo, eventProducer: eventProducer, logger: logger}
}

func (s *OrderService) GetOrder(ctx context.Context, userID uint, isAdmin bool, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, page, pageSize int) ([]model.Order, int64, error) {
	return s.orderRepo.GetOrdersByUserID(ctx, userID, page, pageSize)
}

func (s *OrderService) ListAllOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
	return s.orderRepo.GetAllOrders(ctx, status, page, pageSize)
}

// UpdateOrderStatus 管理端履約狀態轉移
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !isTransitionAllowed(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusChange, order.Status, status)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	return s.orderRepo.GetOrderByID(ctx, orderID)
}

func isTransitionAllowed(from, to model.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CancelOrder 用戶取消未付款訂單, 解除該單全部庫存預留
func (s *OrderService) CancelOrder(ctx context.Context, userID uint, orderID string) (*model.Order, error) {
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
	if order.Status != model.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}

	if err := s.orderRepo.CancelOrderTx(ctx, order); err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			// 與付款對帳競態輸了, 訂單已離開PENDING
			return nil, ErrOrderNotCancellable
		}
		return nil, err
	}

	if err := s.eventProducer.ProduceOrderEvent(ctx, producer.EventOrderCancelled, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("produce order cancelled event failed")
	}

	return s.orderRepo.GetOrderByID(ctx, orderID)
}

var _ IOrderService = (*OrderService)(nil)
