package config

import (
	"context"
	"time"

	"geo_hierarchy/cache"
	"geo_hierarchy/logger"
)

// InitCache builds the response cache. An unreachable Redis is not fatal:
// the API runs uncached until the store's health loop reconnects.
func InitCache(ctx context.Context, cfg *Config) *cache.Cache {
	if cfg.CacheBackend == BackendMemory {
		logger.Log.Infow("using in-process cache", "namespace", cfg.CacheNamespace)
		return cache.New(cache.NewMemoryStore(), cfg.CacheNamespace)
	}

	store, err := cache.NewRedisStore(ctx, cfg.RedisURL, cache.RedisOptions{
		OpTimeout:      2 * time.Second,
		HealthInterval: 10 * time.Second,
	})
	if err != nil {
		logger.Log.Errorw("redis cache unavailable, continuing without cache", "error", err)
		return cache.New(nil, cfg.CacheNamespace)
	}
	if !store.Connected() {
		logger.Log.Warnw("redis not reachable yet, caching disabled until it is")
	}
	return cache.New(store, cfg.CacheNamespace)
}
