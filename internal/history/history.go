// Package history remembers which products a signed-in shopper looked at
// recently. It feeds the recommendation prompt.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// MaxEntries bounds each user's history.
const MaxEntries = 20

type Store interface {
	// Record moves productID to the front, dropping older duplicates.
	Record(ctx context.Context, userID, productID string) error
	// Recent returns product ids, most recent first.
	Recent(ctx context.Context, userID string) ([]string, error)
}

type MemoryStore struct {
	mu    sync.Mutex
	views map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{views: make(map[string][]string)}
}

func (s *MemoryStore) Record(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.views[userID]
	next := make([]string, 0, len(prev)+1)
	next = append(next, productID)
	for _, id := range prev {
		if id != productID && len(next) < MaxEntries {
			next = append(next, id)
		}
	}
	s.views[userID] = next
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.views[userID]))
	copy(out, s.views[userID])
	return out, nil
}

// RedisStore keeps one list per user under {prefix}:views:{user_id}.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "freshcart"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(userID string) string {
	return fmt.Sprintf("%s:views:%s", s.prefix, userID)
}

func (s *RedisStore) Record(ctx context.Context, userID, productID string) error {
	key := s.key(userID)
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, key, 0, productID)
	pipe.LPush(ctx, key, productID)
	pipe.LTrim(ctx, key, 0, MaxEntries-1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.client.LRange(ctx, s.key(userID), 0, MaxEntries-1).Result()
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	return ids, nil
}
