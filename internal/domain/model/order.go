package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

type Order struct {
	OrderID           string          `gorm:"primaryKey;type:varchar(50)"` // ORD-yyyymmddHHMMSS-xxxx
	UserID            uint            `gorm:"not null;index"`
	Status            OrderStatus     `gorm:"not null;type:varchar(20);default:'PENDING';index"`
	Subtotal          decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	TaxAmount         decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	ShippingAmount    decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	DiscountAmount    decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	TotalAmount       decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	CouponID          *uint           `gorm:"null"`
	CouponCode        string          `gorm:"type:varchar(50)"`
	ShippingAddressID *uint           `gorm:"null"`
	BillingAddressID  *uint           `gorm:"null"`
	OrderItems        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	OrderDate         time.Time       `gorm:"not null"`
	BaseModel
}

// OrderItem 訂單項目
// 價格與商品資訊於下單當下凍結在snapshot, 不受之後的商品異動影響
type OrderItem struct {
	OrderItemID     uint            `gorm:"primaryKey"`
	OrderID         string          `gorm:"not null;type:varchar(50);index"`
	ProductID       uint            `gorm:"not null"`
	VariantID       *uint           `gorm:"null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	TotalPrice      decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	ProductSnapshot string          `gorm:"not null;type:jsonb"`
	BaseModel
}

// ProductSnapshot 下單當下的商品快照
type ProductSnapshot struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	VariantSKU  string          `json:"variant_sku,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (s ProductSnapshot) Marshal() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (i *OrderItem) Snapshot() (*ProductSnapshot, error) {
	var s ProductSnapshot
	if err := json.Unmarshal([]byte(i.ProductSnapshot), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
