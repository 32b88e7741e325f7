package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// 訂單生命週期事件, 發佈給下游分析消費
const (
	EventOrderCreated     = "order.created"
	EventOrderCancelled   = "order.cancelled"
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

type OrderEvent struct {
	EventType string          `json:"event_type"`
	OrderID   string          `json:"order_id"`
	UserID    uint            `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	OccuredAt time.Time       `json:"occured_at"`
}

type IOrderEventProducer interface {
	ProduceOrderEvent(ctx context.Context, eventType string, order *model.Order) error
	Close() error
}

type OrderEventProducer struct {
	writer *kafka.Writer
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		MaxAttempts:  3,
	}
	return &OrderEventProducer{writer: writer}
}

// ProduceOrderEvent 以orderID當key, 同一張訂單的事件落在同一分區保序
// best effort: caller只記log不阻斷主流程
func (p *OrderEventProducer) ProduceOrderEvent(ctx context.Context, eventType string, order *model.Order) error {
	event := OrderEvent{
		EventType: eventType,
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		Amount:    order.TotalAmount,
		OccuredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderID),
		Value: value,
	})
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}

var _ IOrderEventProducer = (*OrderEventProducer)(nil)
