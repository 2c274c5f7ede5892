package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/services"
)

const (
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
)

// CacheManager handles Redis caching of product listings. Invalidation bumps
// a version counter shared by every list key, so stale entries just age out
// under their TTL instead of being swept.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCacheManager creates a cache manager. redis may be nil, which disables
// caching entirely.
func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redis,
		ttl:   DefaultCacheTTL,
	}
}

// Enabled reports whether a Redis backend is configured.
func (cm *CacheManager) Enabled() bool {
	return cm != nil && cm.redis != nil
}

// GetProductList retrieves a cached listing response for the query.
func (cm *CacheManager) GetProductList(ctx context.Context, query *services.ProductQuery) (map[string]interface{}, bool) {
	if !cm.Enabled() {
		return nil, false
	}

	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listCacheKey(version, query)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetProductListAsync caches a listing response off the request path.
func (cm *CacheManager) SetProductListAsync(query *services.ProductQuery, response map[string]interface{}) {
	if !cm.Enabled() {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		jsonBytes, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cm.listCacheKey(version, query), jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate drops every cached listing by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	if !cm.Enabled() {
		return nil
	}

	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	zap.L().Info("Product cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

// getCacheVersion retrieves the current cache version, initializing it on
// first use.
func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if err == redis.Nil {
			if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
				return 1, nil
			}
		}

		if i < maxRetries-1 {
			time.Sleep(time.Millisecond * 50)
		}
	}
	return 0, fmt.Errorf("failed to get cache version after %d retries", maxRetries)
}

// listCacheKey builds a deterministic key for one listing query. The filter
// is JSON-encoded; encoding/json sorts map keys so equal filters always
// produce equal keys.
func (cm *CacheManager) listCacheKey(version int64, query *services.ProductQuery) string {
	filterJSON, err := json.Marshal(query.Filter)
	if err != nil {
		filterJSON = []byte("{}")
	}
	order := "asc"
	if query.SortDescending {
		order = "desc"
	}
	return fmt.Sprintf("%s%d:p:%d:l:%d:s:%s:%s:f:%s",
		ProductListCachePrefix, version, query.Page, query.Limit,
		query.SortBy, order, filterJSON)
}
