package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/cart"
)

// Store holds one cart per session key. A missing cart reads as empty.
type Store interface {
	Get(ctx context.Context, key string) (cart.Cart, error)
	Save(ctx context.Context, key string, c cart.Cart) error
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]cart.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]cart.Cart)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.carts[key]
	items := make([]cart.CartItem, len(c.Items))
	copy(items, c.Items)
	return cart.Cart{Items: items}, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.IsEmpty() {
		delete(s.carts, key)
		return nil
	}
	items := make([]cart.CartItem, len(c.Items))
	copy(items, c.Items)
	s.carts[key] = cart.Cart{Items: items}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
	return nil
}

// RedisStore keeps each cart as a JSON string under {prefix}:cart:{key}.
// Every save pushes the expiry out by ttl.
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

func (s *RedisStore) cartKey(key string) string {
	return fmt.Sprintf("%s:cart:%s", s.prefix, key)
}

func (s *RedisStore) Get(ctx context.Context, key string) (cart.Cart, error) {
	data, err := s.client.Get(ctx, s.cartKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return cart.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return cart.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, c cart.Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, key)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.cartKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.cartKey(key)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
