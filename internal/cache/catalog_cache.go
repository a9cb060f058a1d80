// Package cache keeps loaded catalogs in Redis so storefront reads skip the
// document store until the tenant's menu changes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chrisdamba/menuar/internal/catalog"
)

const keyPrefix = "menuar:catalog:"

type CatalogCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{Client: client, TTL: ttl}
}

func (c *CatalogCache) Key(tenantID string) string {
	return keyPrefix + tenantID
}

// Get reports a miss as (nil, false, nil).
func (c *CatalogCache) Get(ctx context.Context, tenantID string) (*catalog.Catalog, bool, error) {
	raw, err := c.Client.Get(ctx, c.Key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", tenantID, err)
	}
	var cat catalog.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, false, fmt.Errorf("decode cached catalog %s: %w", tenantID, err)
	}
	return &cat, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, tenantID string, cat *catalog.Catalog) error {
	raw, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", tenantID, err)
	}
	return c.Client.Set(ctx, c.Key(tenantID), raw, c.TTL).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context, tenantID string) error {
	return c.Client.Del(ctx, c.Key(tenantID)).Err()
}

var _ catalog.Cache = (*CatalogCache)(nil)
