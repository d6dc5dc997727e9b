package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(client, "test")
}

func TestRedisCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestRedisCache_MissAndDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestManager_JSONRoundTrip(t *testing.T) {
	m := NewManager(newTestCache(t))
	ctx := context.Background()

	in := map[string]float64{"2026-01-15": 1450000, "2026-01-16": 1390000}
	require.NoError(t, m.SetJSON(ctx, PriceLookupKey("THR", "MHD"), in, PriceLookupTTL))

	var out map[string]float64
	require.NoError(t, m.GetJSON(ctx, PriceLookupKey("THR", "MHD"), &out))
	assert.Equal(t, in, out)
}

func TestPriceLookupKey(t *testing.T) {
	assert.Equal(t, "price_lookup:THR:MHD", PriceLookupKey("THR", "MHD"))
}
