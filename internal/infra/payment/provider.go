package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// provider回報的付款意圖狀態
const (
	StatusSucceeded             = "succeeded"
	StatusProcessing            = "processing"
	StatusRequiresAction        = "requires_action"
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusCanceled              = "canceled"
)

var (
	ErrProviderRequest = errors.New("payment provider request failed")
	ErrIntentNotFound  = errors.New("payment intent not found")
)

// Intent provider端的付款意圖
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"` // 最小幣值單位
	Currency     string `json:"currency"`
}

type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// IProvider 對外付款供應商
// 金額以decimal傳入, client負責轉成供應商的最小幣值單位
type IProvider interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, orderID string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
	CreateRefund(ctx context.Context, intentID string, amount decimal.Decimal) (*Refund, error)
}
