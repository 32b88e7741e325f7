package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartLine 購物車明細加上目前的商品資訊與金額
// 價格是當下目錄價, 下單時仍會重新驗價
type CartLine struct {
	CartItemID  uint            `json:"cart_item_id"`
	ProductID   uint            `json:"product_id"`
	VariantID   *uint           `json:"variant_id,omitempty"`
	Name        string          `json:"name"`
	VariantName string          `json:"variant_name,omitempty"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type CartView struct {
	Items    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type ICartService interface {
	GetCart(ctx context.Context, userID uint) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uint, variantID *uint, quantity int) error
	UpdateItemQuantity(ctx context.Context, userID, cartItemID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, cartItemID uint) error
	ClearCart(ctx context.Context, userID uint) error
}

type CartService struct {
	cartRepo db.ICartRepository
	catalog  ICatalogService
}

func NewCartService(cartRepo db.ICartRepository, catalog ICatalogService) *CartService {
	return &CartService{cartRepo: cartRepo, catalog: catalog}
}

// GetCart 組合購物車明細與當下商品資訊
// 引用到的商品已下架時明細照樣回傳, 由前端提示, 下單時才會被擋
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.cartRepo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart items failed: %w", err)
	}

	view := &CartView{Items: make([]CartLine, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		line := CartLine{
			CartItemID: item.CartItemID,
			ProductID:  item.ProductID,
			VariantID:  item.VariantID,
			Name:       product.Name,
			SKU:        product.SKU,
			Quantity:   item.Quantity,
			UnitPrice:  product.Price,
		}
		if item.VariantID != nil {
			variant := findVariant(product, *item.VariantID)
			if variant != nil {
				line.UnitPrice = variant.Price
				line.VariantName = variant.Name
				line.SKU = variant.SKU
			}
		}
		line.Amount = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		view.Items = append(view.Items, line)
		view.Subtotal = view.Subtotal.Add(line.Amount)
	}
	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, variantID *uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	product, err := s.catalog.GetPublishedProduct(ctx, productID)
	if err != nil {
		return err
	}
	if variantID != nil && findVariant(product, *variantID) == nil {
		return ErrVariantNotFound
	}

	return s.cartRepo.UpsertCartItem(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
}

// UpdateItemQuantity 數量改為0時等同移除
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, cartItemID uint, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, cartItemID)
	}

	if _, err := s.getOwnedItem(ctx, userID, cartItemID); err != nil {
		return err
	}

	err := s.cartRepo.UpdateQuantity(ctx, cartItemID, quantity)
	if errors.Is(err, db.ErrCartItemNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID uint) error {
	err := s.cartRepo.DeleteCartItem(ctx, userID, cartItemID)
	if errors.Is(err, db.ErrCartItemNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	return s.cartRepo.ClearCart(ctx, userID)
}

func (s *CartService) getOwnedItem(ctx context.Context, userID, cartItemID uint) (*model.CartItem, error) {
	items, err := s.cartRepo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].CartItemID == cartItemID {
			return &items[i], nil
		}
	}
	return nil, ErrCartItemNotFound
}

var _ ICartService = (*CartService)(nil)
