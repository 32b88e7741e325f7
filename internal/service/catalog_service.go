package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
)

type ICatalogService interface {
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	GetPublishedProduct(ctx context.Context, productID uint) (*model.Product, error)
	ListProducts(ctx context.Context, page, pageSize int, category string) ([]model.Product, int64, error)
	CreateProduct(ctx context.Context, product *model.Product, initialStock int) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	ArchiveProduct(ctx context.Context, productID uint) error
	SetStock(ctx context.Context, productID uint, variantID *uint, quantity int) error
	GetInventory(ctx context.Context, productID uint, variantID *uint) (*model.Inventory, error)
}

// CatalogService 商品目錄, 讀多寫少
// 讀取走redis read-through快取, 管理端異動時失效
type CatalogService struct {
	productRepo   db.IProductRepository
	inventoryRepo db.IInventoryRepository
	cache         redis_repo.IProductCacheRepository
	logger        *zerolog.Logger
}

func NewCatalogService(productRepo db.IProductRepository, inventoryRepo db.IInventoryRepository, cache redis_repo.IProductCacheRepository, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		cache:         cache,
		logger:        logger,
	}
}

// GetProduct 快取優先, miss或快取故障時回源db
// 快取錯誤只記log, 不影響讀取
func (s *CatalogService) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	cached, err := s.cache.GetProduct(ctx, productID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis_repo.ErrCacheMiss) {
		s.logger.Warn().Err(err).Uint("product_id", productID).Msg("product cache read failed")
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warn().Err(err).Uint("product_id", productID).Msg("product cache write failed")
	}
	return product, nil
}

// GetPublishedProduct 前台商品頁只露出上架商品
func (s *CatalogService) GetPublishedProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsPublished() {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, page, pageSize int, category string) ([]model.Product, int64, error) {
	return s.productRepo.ListPublished(ctx, page, pageSize, category)
}

// CreateProduct 管理端建立商品, 同時建立庫存列
// 有variant的商品, 每個variant各有一列庫存
func (s *CatalogService) CreateProduct(ctx context.Context, product *model.Product, initialStock int) (*model.Product, error) {
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product failed: %w", err)
	}

	if len(product.Variants) == 0 {
		inv := &model.Inventory{ProductID: product.ProductID, Quantity: initialStock}
		if err := s.inventoryRepo.CreateInventory(ctx, inv); err != nil {
			return nil, fmt.Errorf("create inventory failed: %w", err)
		}
	} else {
		for i := range product.Variants {
			variantID := product.Variants[i].VariantID
			inv := &model.Inventory{
				ProductID: product.ProductID,
				VariantID: &variantID,
				Quantity:  initialStock,
			}
			if err := s.inventoryRepo.CreateInventory(ctx, inv); err != nil {
				return nil, fmt.Errorf("create variant inventory failed: %w", err)
			}
		}
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ProductID)
	return s.productRepo.GetProductByID(ctx, product.ProductID)
}

func (s *CatalogService) ArchiveProduct(ctx context.Context, productID uint) error {
	if err := s.productRepo.UpdateProductStatus(ctx, productID, model.ProductStatusArchived); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

func (s *CatalogService) SetStock(ctx context.Context, productID uint, variantID *uint, quantity int) error {
	err := s.inventoryRepo.SetQuantity(ctx, productID, variantID, quantity)
	if errors.Is(err, db.ErrInventoryNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *CatalogService) GetInventory(ctx context.Context, productID uint, variantID *uint) (*model.Inventory, error) {
	inv, err := s.inventoryRepo.GetInventory(ctx, productID, variantID)
	if errors.Is(err, db.ErrInventoryNotFound) {
		return nil, ErrProductNotFound
	}
	return inv, err
}

func (s *CatalogService) invalidate(ctx context.Context, productID uint) {
	if err := s.cache.DeleteProduct(ctx, productID); err != nil {
		s.logger.Warn().Err(err).Uint("product_id", productID).Msg("product cache invalidation failed")
	}
}

var _ ICatalogService = (*CatalogService)(nil)
