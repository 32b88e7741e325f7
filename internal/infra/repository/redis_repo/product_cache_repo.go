package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

type ProductCacheError error

var (
	ErrCacheMiss ProductCacheError = errors.New("product cache miss")
)

// IProductCacheRepository 商品read-through快取
// 寫入方為catalog service: 讀取miss時回填, 商品異動時失效
type IProductCacheRepository interface {
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	SetProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, productID uint) error
}

const productCacheTTL = 10 * time.Minute

type ProductCacheRepo struct {
	productCache *redis.Client
}

func NewProductCacheRepo(productCache *redis.Client) *ProductCacheRepo {
	return &ProductCacheRepo{productCache: productCache}
}

func generateProductInfoKey(productID uint) string {
	return fmt.Sprintf("product:%d:info", productID)
}

func (s *ProductCacheRepo) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	redisKey := generateProductInfoKey(productID)
	data, err := s.productCache.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductCacheRepo) SetProduct(ctx context.Context, product *model.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}

	redisKey := generateProductInfoKey(product.ProductID)
	return s.productCache.Set(ctx, redisKey, data, productCacheTTL).Err()
}

func (s *ProductCacheRepo) DeleteProduct(ctx context.Context, productID uint) error {
	redisKey := generateProductInfoKey(productID)
	return s.productCache.Del(ctx, redisKey).Err()
}

var _ IProductCacheRepository = (*ProductCacheRepo)(nil)
