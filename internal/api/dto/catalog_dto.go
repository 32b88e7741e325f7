package dto

import (
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
)

type VariantDTO struct {
	ID    uint            `json:"id"`
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ProductDTO struct {
	ID              uint             `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Brand           string           `json:"brand"`
	Price           decimal.Decimal  `json:"price"`
	ComparePrice    *decimal.Decimal `json:"compare_price,omitempty"`
	Status          string           `json:"status"`
	TrackInventory  bool             `json:"track_inventory"`
	AllowOutOfStock bool             `json:"allow_out_of_stock"`
	Variants        []VariantDTO     `json:"variants,omitempty"`
}

func ConvertProductToDTO(p *model.Product) ProductDTO {
	out := ProductDTO{
		ID:              p.ProductID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Brand:           p.Brand,
		Price:           p.Price,
		ComparePrice:    p.ComparePrice,
		Status:          string(p.Status),
		TrackInventory:  p.TrackInventory,
		AllowOutOfStock: p.AllowOutOfStock,
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, VariantDTO{
			ID:    v.VariantID,
			SKU:   v.SKU,
			Name:  v.Name,
			Price: v.Price,
		})
	}
	return out
}

// PagedResponse 分頁響應外層
type PagedResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type CreateVariantDTO struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CreateProductDTO struct {
	SKU             string             `json:"sku"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	Brand           string             `json:"brand"`
	Price           decimal.Decimal    `json:"price"`
	ComparePrice    *decimal.Decimal   `json:"compare_price"`
	TrackInventory  *bool              `json:"track_inventory"`
	AllowOutOfStock bool               `json:"allow_out_of_stock"`
	Status          string             `json:"status"`
	InitialStock    int                `json:"initial_stock"`
	Variants        []CreateVariantDTO `json:"variants"`
}

type UpdateProductDTO struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	Brand           *string          `json:"brand"`
	Price           *decimal.Decimal `json:"price"`
	ComparePrice    *decimal.Decimal `json:"compare_price"`
	TrackInventory  *bool            `json:"track_inventory"`
	AllowOutOfStock *bool            `json:"allow_out_of_stock"`
	Status          *string          `json:"status"`
}

type SetStockDTO struct {
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

type InventoryDTO struct {
	ProductID        uint  `json:"product_id"`
	VariantID        *uint `json:"variant_id,omitempty"`
	Quantity         int   `json:"quantity"`
	ReservedQuantity int   `json:"reserved_quantity"`
	Available        int   `json:"available"`
}
