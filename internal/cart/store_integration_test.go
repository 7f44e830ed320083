//go:build integration
// +build integration

package cart

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/cart"
)

func requireRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := requireRedis(t)
	ctx := context.Background()
	s := NewRedisStore(client, "freshcart-test", time.Minute)
	t.Cleanup(func() { _ = s.Delete(ctx, "user:u1") })

	empty, err := s.Get(ctx, "user:u1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	var c cart.Cart
	require.NoError(t, c.Add(cart.CartItem{ID: "prod_a", Name: "Apple", Price: decimal.RequireFromString("0.99"), Quantity: 3}))
	require.NoError(t, s.Save(ctx, "user:u1", c))

	got, err := s.Get(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count())

	ttl, err := client.TTL(ctx, s.cartKey("user:u1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Save(ctx, "user:u1", cart.Cart{}))
	got, err = s.Get(ctx, "user:u1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}
