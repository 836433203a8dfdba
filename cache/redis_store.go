package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"geo_hierarchy/logger"
)

const defaultHealthInterval = 10 * time.Second

// RedisStore stores entries in Redis. A background loop pings the server and
// tracks reachability; while unreachable every operation is skipped.
type RedisStore struct {
	client    *redis.Client
	opTimeout time.Duration
	connected atomic.Bool
	stop      context.CancelFunc
	done      chan struct{}
}

// RedisOptions tunes a RedisStore.
type RedisOptions struct {
	OpTimeout      time.Duration
	HealthInterval time.Duration
}

// NewRedisStore parses url, pings once and starts the health loop. An
// unreachable server is not an error; the store starts disconnected.
func NewRedisStore(ctx context.Context, url string, opts RedisOptions) (*RedisStore, error) {
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.HealthInterval <= 0 {
		opts.HealthInterval = defaultHealthInterval
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s := &RedisStore{
		client:    redis.NewClient(ropts),
		opTimeout: opts.OpTimeout,
		stop:      cancel,
		done:      make(chan struct{}),
	}
	s.ping(ctx)
	go s.healthLoop(loopCtx, opts.HealthInterval)
	return s, nil
}

func (s *RedisStore) healthLoop(ctx context.Context, interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ping(ctx)
		}
	}
}

func (s *RedisStore) ping(ctx context.Context) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.client.Ping(ctx).Err()
	was := s.connected.Swap(err == nil)
	switch {
	case err != nil && was:
		logger.Log.Warnw("redis unreachable, caching disabled", "error", err)
	case err == nil && !was:
		logger.Log.Infow("redis connected, caching enabled")
	}
}

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// fail marks the store disconnected until the next successful ping.
func (s *RedisStore) fail(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.connected.Store(false)
	return err
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !s.Connected() {
		return nil, false, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, s.fail(fmt.Errorf("redis get %q: %w", key, err))
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !s.Connected() {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return s.fail(fmt.Errorf("redis set %q: %w", key, err))
	}
	return nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	if !s.Connected() {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return s.fail(fmt.Errorf("redis del %q: %w", key, err))
	}
	return nil
}

func (s *RedisStore) Connected() bool {
	return s.connected.Load()
}

// Close stops the health loop and closes the client.
func (s *RedisStore) Close() error {
	s.stop()
	<-s.done
	s.connected.Store(false)
	return s.client.Close()
}
