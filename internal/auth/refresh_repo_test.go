package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRefreshRepoConsume(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRefreshRepo()
	require.NoError(t, r.Store(ctx, "u1", "live", time.Now().Add(time.Hour)))
	require.NoError(t, r.Store(ctx, "u1", "stale", time.Now().Add(-time.Minute)))

	ok, err := r.Consume(ctx, "u1", "live")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = r.Consume(ctx, "u1", "live")
	assert.False(t, ok, "second use")
	ok, _ = r.Consume(ctx, "u1", "stale")
	assert.False(t, ok, "expired")
	ok, _ = r.Consume(ctx, "u2", "live")
	assert.False(t, ok, "other user")
}

func TestMemoryRefreshRepoConsumeOnceUnderRace(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRefreshRepo()
	require.NoError(t, r.Store(ctx, "u1", "tok", time.Now().Add(time.Hour)))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := r.Consume(ctx, "u1", "tok"); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestMemoryRefreshRepoRevoke(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRefreshRepo()
	require.NoError(t, r.Store(ctx, "u1", "tok", time.Now().Add(time.Hour)))
	require.NoError(t, r.Revoke(ctx, "u1", "tok"))

	ok, err := r.Consume(ctx, "u1", "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}
