package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

// IsTerminal 終態付款不再接受provider狀態轉移
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

type Payment struct {
	PaymentID        uuid.UUID       `gorm:"primaryKey;type:uuid"`
	OrderID          string          `gorm:"not null;type:varchar(50);index"`
	Amount           decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Currency         string          `gorm:"not null;type:varchar(3)"`
	Status           PaymentStatus   `gorm:"not null;type:varchar(20);default:'PENDING';index"`
	ProviderIntentID string          `gorm:"not null;type:varchar(100);index"`
	ClientSecret     string          `gorm:"not null;type:varchar(255)"`
	ProviderRefundID string          `gorm:"type:varchar(100)"`
	BaseModel
}
