package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), RedisOptions{
		OpTimeout:      time.Second,
		HealthInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newTestRedisStore(t)
	c := New(store, "geo")
	ctx := context.Background()

	require.True(t, c.Connected())
	c.Set(ctx, "hierarchy:multiple:clusterId:1", map[string]any{"success": true}, time.Hour)

	assert.True(t, mr.Exists("geo:hierarchy:multiple:clusterId:1"))
	assert.Equal(t, time.Hour, mr.TTL("geo:hierarchy:multiple:clusterId:1"))

	var got map[string]any
	require.True(t, c.Get(ctx, "hierarchy:multiple:clusterId:1", &got))
	assert.Equal(t, true, got["success"])

	mr.FastForward(time.Hour + time.Second)
	assert.False(t, c.Get(ctx, "hierarchy:multiple:clusterId:1", &got))
}

func TestRedisStoreDisconnectsOnErrorAndRecovers(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	mr.SetError("LOADING server is loading")
	assert.Error(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	assert.False(t, store.Connected())

	assert.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute), "writes are skipped while disconnected")

	mr.SetError("")
	assert.Eventually(t, store.Connected, time.Second, 10*time.Millisecond)
	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	b, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(b))
}

func TestRedisStoreStartsDisconnectedWhenUnreachable(t *testing.T) {
	store, err := NewRedisStore(context.Background(), "redis://127.0.0.1:1", RedisOptions{
		OpTimeout:      100 * time.Millisecond,
		HealthInterval: time.Hour,
	})
	require.NoError(t, err)
	defer store.Close()

	assert.False(t, store.Connected())
	_, ok, err := store.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "://nope", RedisOptions{})
	assert.Error(t, err)
}
