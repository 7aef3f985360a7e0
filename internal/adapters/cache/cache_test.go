package cache

import (
	"ReferralHub/internal/core/ports"
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, err = c.Get(ctx, "short")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestMultiLevelCache_RefillsLocal(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote := NewMemoryCache(time.Minute, time.Minute)
	m := NewMultiLevelCache(local, remote, time.Minute)

	require.NoError(t, remote.Set(ctx, "k", []byte("remote"), time.Minute))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), got)

	got, err = local.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), got)

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestMultiLevelCache_RefillUsesHalfTTL(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote := NewMemoryCache(time.Minute, time.Minute)
	m := NewMultiLevelCache(local, remote, 40*time.Millisecond)

	require.NoError(t, remote.Set(ctx, "k", []byte("remote"), time.Minute))
	_, err := m.Get(ctx, "k")
	require.NoError(t, err)

	_, err = local.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	_, err = local.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), got)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}
	ctx := context.Background()
	nopLogger := zerolog.Nop()

	c, closeFn, err := NewRedisCache(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0, &nopLogger)
	require.NoError(t, err)
	defer closeFn()

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, c.Set(ctx, key, []byte("v"), time.Minute))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, key))
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}
