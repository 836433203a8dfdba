// Package cache is the key/value response cache in front of the hierarchy
// aggregator. Failures are logged and counted but never returned: a broken
// cache only costs a recomputation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"geo_hierarchy/logger"
	"geo_hierarchy/metrics"
)

// Store is a byte-level key/value store with per-entry TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Connected() bool
	Close() error
}

// Cache namespaces keys and encodes values for a Store.
type Cache struct {
	store     Store
	namespace string
}

func New(store Store, namespace string) *Cache {
	return &Cache{store: store, namespace: namespace}
}

func (c *Cache) key(k string) string {
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}

// Connected reports whether the underlying store is usable.
func (c *Cache) Connected() bool {
	return c != nil && c.store != nil && c.store.Connected()
}

// Get decodes the entry under key into dest and reports whether it did.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Connected() {
		return false
	}

	raw, ok, err := c.store.Get(ctx, c.key(key))
	if err != nil {
		metrics.CacheErrors.WithLabelValues(c.namespace, "get").Inc()
		logger.Log.Warnw("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		metrics.CacheMisses.WithLabelValues(c.namespace).Inc()
		return false
	}

	if err := decode(raw, dest); err != nil {
		metrics.CacheErrors.WithLabelValues(c.namespace, "decode").Inc()
		logger.Log.Warnw("cache entry not decodable", "key", key, "error", err)
		return false
	}
	metrics.CacheHits.WithLabelValues(c.namespace).Inc()
	return true
}

// Set stores value under key for ttl. Strings and byte slices are stored as
// is, anything else as JSON. It is a no-op while the store is disconnected.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Connected() {
		return
	}

	raw, err := encode(value)
	if err != nil {
		metrics.CacheErrors.WithLabelValues(c.namespace, "encode").Inc()
		logger.Log.Warnw("cache value not encodable", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, c.key(key), raw, ttl); err != nil {
		metrics.CacheErrors.WithLabelValues(c.namespace, "set").Inc()
		logger.Log.Warnw("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if !c.Connected() {
		return
	}
	if err := c.store.Del(ctx, c.key(key)); err != nil {
		metrics.CacheErrors.WithLabelValues(c.namespace, "del").Inc()
		logger.Log.Warnw("cache delete failed", "key", key, "error", err)
	}
}

func (c *Cache) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

func decode(raw []byte, dest any) error {
	switch d := dest.(type) {
	case *string:
		*d = string(raw)
		return nil
	case *[]byte:
		*d = append((*d)[:0], raw...)
		return nil
	case *json.RawMessage:
		*d = append((*d)[:0], raw...)
		return nil
	default:
		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("decode cache entry: %w", err)
		}
		return nil
	}
}
