package dto

import (
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
)

type AddCartItemDTO struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateCartItemDTO struct {
	Quantity int `json:"quantity"`
}

// CheckoutLineDTO 客戶端提交的結帳明細
// unit_price只用於驗價, 伺服器一定以目錄價重算
type CheckoutLineDTO struct {
	ProductID uint            `json:"product_id"`
	VariantID *uint           `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateOrderDTO struct {
	Items             []CheckoutLineDTO `json:"items"`
	CouponCode        string            `json:"coupon_code"`
	ShippingAddressID *uint             `json:"shipping_address_id"`
	BillingAddressID  *uint             `json:"billing_address_id"`
}

type OrderItemDTO struct {
	ProductID  uint                   `json:"product_id"`
	VariantID  *uint                  `json:"variant_id,omitempty"`
	Quantity   int                    `json:"quantity"`
	UnitPrice  decimal.Decimal        `json:"unit_price"`
	TotalPrice decimal.Decimal        `json:"total_price"`
	Snapshot   *model.ProductSnapshot `json:"snapshot,omitempty"`
}

type OrderDTO struct {
	OrderID        string          `json:"order_id"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	OrderDate      time.Time       `json:"order_date"`
	Items          []OrderItemDTO  `json:"items"`
}

func ConvertOrderToDTO(o *model.Order) OrderDTO {
	out := OrderDTO{
		OrderID:        o.OrderID,
		Status:         string(o.Status),
		Subtotal:       o.Subtotal,
		TaxAmount:      o.TaxAmount,
		ShippingAmount: o.ShippingAmount,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		CouponCode:     o.CouponCode,
		OrderDate:      o.OrderDate,
	}
	for _, item := range o.OrderItems {
		itemDTO := OrderItemDTO{
			ProductID:  item.ProductID,
			VariantID:  item.VariantID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if snapshot, err := item.Snapshot(); err == nil {
			itemDTO.Snapshot = snapshot
		}
		out.Items = append(out.Items, itemDTO)
	}
	return out
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status"`
}

type ValidateCouponDTO struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CouponResultDTO struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Discount decimal.Decimal `json:"discount"`
}

type PaymentDTO struct {
	PaymentID    string          `json:"payment_id"`
	OrderID      string          `json:"order_id"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ClientSecret string          `json:"client_secret,omitempty"`
}

func ConvertPaymentToDTO(p *model.Payment, includeSecret bool) PaymentDTO {
	out := PaymentDTO{
		PaymentID: p.PaymentID.String(),
		OrderID:   p.OrderID,
		Status:    string(p.Status),
		Amount:    p.Amount,
		Currency:  p.Currency,
	}
	if includeSecret {
		out.ClientSecret = p.ClientSecret
	}
	return out
}

type AddressDTO struct {
	ID         uint   `json:"id"`
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type UpsertAddressDTO struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

func ConvertAddressToDTO(a *model.Address) AddressDTO {
	return AddressDTO{
		ID:         a.AddressID,
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}
