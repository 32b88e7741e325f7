package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type ProductRepoError error

var (
	ErrProductNotFound ProductRepoError = errors.New("product not found")
	ErrVariantNotFound ProductRepoError = errors.New("variant not found")
)

type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	GetVariantByID(ctx context.Context, id uint) (*model.ProductVariant, error)
	ListPublished(ctx context.Context, page, pageSize int, category string) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	UpdateProductStatus(ctx context.Context, id uint, status model.ProductStatus) error
	CreateVariant(ctx context.Context, variant *model.ProductVariant) error
}

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductRepo) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Variants").First(&product, "product_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Variants").First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetVariantByID(ctx context.Context, id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := s.db.WithContext(ctx).First(&variant, "variant_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// 前台商品列表, 只含上架商品
func (s *ProductRepo) ListPublished(ctx context.Context, page, pageSize int, category string) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	offset := (page - 1) * pageSize
	query := s.db.WithContext(ctx).Model(&model.Product{}).Where("status = ?", model.ProductStatusPublished)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Variants").Offset(offset).Limit(pageSize).Order("product_id").Find(&products).Error
	return products, total, err
}

func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

func (s *ProductRepo) UpdateProductStatus(ctx context.Context, id uint, status model.ProductStatus) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *ProductRepo) CreateVariant(ctx context.Context, variant *model.ProductVariant) error {
	return s.db.WithContext(ctx).Create(variant).Error
}

var _ IProductRepository = (*ProductRepo)(nil)
