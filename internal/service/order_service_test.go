package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestOrderService() (*OrderService, *fakeOrderRepo, *fakeEventProducer) {
	orderRepo := &fakeOrderRepo{orders: map[string]*model.Order{}}
	events := &fakeEventProducer{}
	logger := zerolog.Nop()
	return NewOrderService(orderRepo, events, &logger), orderRepo, events
}

func TestGetOrder_Ownership(t *testing.T) {
	svc, orderRepo, _ := newTestOrderService()
	orderRepo.orders["ORD-1"] = pendingOrder("ORD-1", 7)

	_, err := svc.GetOrder(context.Background(), 7, false, "ORD-1")
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), 8, false, "ORD-1")
	require.ErrorIs(t, err, ErrNotOrderOwner)

	// 管理員不受擁有者限制
	_, err = svc.GetOrder(context.Background(), 8, true, "ORD-1")
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), 7, false, "ORD-404")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    model.OrderStatus
		to      model.OrderStatus
		wantErr bool
	}{
		{"confirmed to processing", model.OrderStatusConfirmed, model.OrderStatusProcessing, false},
		{"confirmed to cancelled", model.OrderStatusConfirmed, model.OrderStatusCancelled, false},
		{"processing to shipped", model.OrderStatusProcessing, model.OrderStatusShipped, false},
		{"processing to cancelled", model.OrderStatusProcessing, model.OrderStatusCancelled, false},
		{"shipped to delivered", model.OrderStatusShipped, model.OrderStatusDelivered, false},
		{"shipped to cancelled", model.OrderStatusShipped, model.OrderStatusCancelled, true},
		{"delivered is terminal", model.OrderStatusDelivered, model.OrderStatusProcessing, true},
		{"pending is reconciliation territory", model.OrderStatusPending, model.OrderStatusConfirmed, true},
		{"skip a step", model.OrderStatusConfirmed, model.OrderStatusShipped, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orderRepo, _ := newTestOrderService()
			order := pendingOrder("ORD-1", 7)
			order.Status = tt.from
			orderRepo.orders["ORD-1"] = order

			updated, err := svc.UpdateOrderStatus(context.Background(), "ORD-1", tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStatusChange)
				require.Equal(t, tt.from, orderRepo.orders["ORD-1"].Status)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.to, updated.Status)
			}
		})
	}
}

func TestCancelOrder(t *testing.T) {
	svc, orderRepo, events := newTestOrderService()
	orderRepo.orders["ORD-1"] = pendingOrder("ORD-1", 7)

	cancelled, err := svc.CancelOrder(context.Background(), 7, "ORD-1")
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	require.Contains(t, events.events, "order.cancelled")
}

func TestCancelOrder_OnlyOwnPendingOrders(t *testing.T) {
	svc, orderRepo, _ := newTestOrderService()
	orderRepo.orders["ORD-1"] = pendingOrder("ORD-1", 7)

	_, err := svc.CancelOrder(context.Background(), 8, "ORD-1")
	require.ErrorIs(t, err, ErrNotOrderOwner)

	confirmed := pendingOrder("ORD-2", 7)
	confirmed.Status = model.OrderStatusConfirmed
	orderRepo.orders["ORD-2"] = confirmed

	_, err = svc.CancelOrder(context.Background(), 7, "ORD-2")
	require.ErrorIs(t, err, ErrOrderNotCancellable)
}
