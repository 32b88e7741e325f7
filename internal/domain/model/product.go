package model

import (
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "DRAFT"
	ProductStatusPublished ProductStatus = "PUBLISHED"
	ProductStatusArchived  ProductStatus = "ARCHIVED"
)

type Product struct {
	ProductID       uint             `gorm:"primaryKey"`
	SKU             string           `gorm:"not null;type:varchar(100);unique"`
	Name            string           `gorm:"not null;type:varchar(100)"`
	Description     string           `gorm:"type:text"`
	Category        string           `gorm:"type:varchar(50);index"`
	Brand           string           `gorm:"type:varchar(50)"`
	Price           decimal.Decimal  `gorm:"not null;type:decimal(10,2)"`
	ComparePrice    *decimal.Decimal `gorm:"type:decimal(10,2)"` // 劃線價, 可為空
	TrackInventory  bool             `gorm:"not null;default:true"`
	AllowOutOfStock bool             `gorm:"not null;default:false"` // 允許超賣
	Status          ProductStatus    `gorm:"not null;type:varchar(20);default:'DRAFT';index"`
	Variants        []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BaseModel
}

func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// ProductVariant 商品規格
// 有自己的SKU與價格, 庫存獨立於主商品
type ProductVariant struct {
	VariantID uint            `gorm:"primaryKey"`
	ProductID uint            `gorm:"not null;index"`
	SKU       string          `gorm:"not null;type:varchar(100);unique"`
	Name      string          `gorm:"not null;type:varchar(100)"` // e.g. "Red / L"
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	BaseModel
}
