package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Mihaix21/Stock-Forecasting/internal/config"
	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	productListKey       = "products:list"
	productItemKeyPrefix = "products:item"
	productScanBatchSize = 100
)

// ProductCache caches product reads on the collaborator path. The forecast
// engine itself never reads it: plan computations always run against a fresh
// history snapshot.
type ProductCache interface {
	GetList(ctx context.Context) ([]*domain.Product, bool, error)
	SetList(ctx context.Context, products []*domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, bool, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	Invalidate(ctx context.Context, id int64) error
	InvalidateAll(ctx context.Context) error
}

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopProductCache struct{}

func NewProductCache(cfg config.CacheConfig) (ProductCache, error) {
	if !cfg.Enabled {
		return &noopProductCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisProductCache{client: client, ttl: ttl}, nil
}

func NewNoopProductCache() ProductCache {
	return &noopProductCache{}
}

func (c *redisProductCache) GetList(ctx context.Context) ([]*domain.Product, bool, error) {
	payload, err := c.client.Get(ctx, productListKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false, fmt.Errorf("decode product list cache: %w", err)
	}

	return products, true, nil
}

func (c *redisProductCache) SetList(ctx context.Context, products []*domain.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode product list cache: %w", err)
	}

	if err := c.client.Set(ctx, productListKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisProductCache) GetProduct(ctx context.Context, id int64) (*domain.Product, bool, error) {
	payload, err := c.client.Get(ctx, productItemKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, false, fmt.Errorf("decode product cache: %w", err)
	}

	return &product, true, nil
}

func (c *redisProductCache) SetProduct(ctx context.Context, product *domain.Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product cache: %w", err)
	}

	if err := c.client.Set(ctx, productItemKey(product.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisProductCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, productItemKey(id), productListKey).Err()
}

func (c *redisProductCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Del(ctx, productListKey).Err(); err != nil {
		return err
	}
	return deleteKeysWithPrefix(ctx, c.client, productItemKeyPrefix, productScanBatchSize)
}

func (n *noopProductCache) GetList(ctx context.Context) ([]*domain.Product, bool, error) {
	return nil, false, nil
}

func (n *noopProductCache) SetList(ctx context.Context, products []*domain.Product) error {
	return nil
}

func (n *noopProductCache) GetProduct(ctx context.Context, id int64) (*domain.Product, bool, error) {
	return nil, false, nil
}

func (n *noopProductCache) SetProduct(ctx context.Context, product *domain.Product) error {
	return nil
}

func (n *noopProductCache) Invalidate(ctx context.Context, id int64) error {
	return nil
}

func (n *noopProductCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func productItemKey(id int64) string {
	return productItemKeyPrefix + ":" + strconv.FormatInt(id, 10)
}
