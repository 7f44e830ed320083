//go:build integration
// +build integration

package history

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestRedisStore(t *testing.T) {
	client := requireRedis(t)
	ctx := context.Background()
	s := NewRedisStore(client, "freshcart-test", time.Minute)
	t.Cleanup(func() { client.Del(ctx, s.key("u1")) })

	require.NoError(t, s.Record(ctx, "u1", "prod_a"))
	require.NoError(t, s.Record(ctx, "u1", "prod_b"))
	require.NoError(t, s.Record(ctx, "u1", "prod_a"))

	got, err := s.Recent(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod_a", "prod_b"}, got)
}
