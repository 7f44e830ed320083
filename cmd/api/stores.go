package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/cart"
	"github.com/Prabhu-B-26/FreshCart/internal/config"
	"github.com/Prabhu-B-26/FreshCart/internal/db"
	"github.com/Prabhu-B-26/FreshCart/internal/history"
	"github.com/Prabhu-B-26/FreshCart/internal/orders"
	"github.com/Prabhu-B-26/FreshCart/internal/products"
)

const redisPrefix = "freshcart"

type stores struct {
	products products.Repo
	orders   orders.Repo
	users    auth.UserRepo
	refresh  auth.RefreshRepo
	carts    cart.Store
	views    history.Store

	closers []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*stores, error) {
	s := &stores{}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.products = products.NewPostgresRepo(pool)
		s.orders = orders.NewPostgresRepo(pool)
		s.users = auth.NewPostgresUserRepo(pool)
		s.refresh = auth.NewPostgresRefreshRepo(pool)
	case config.BackendMemory:
		latency := time.Duration(cfg.MockLatencyMs) * time.Millisecond
		s.products = products.NewMemoryRepo(latency)
		s.orders = orders.NewMemoryRepo(latency)
		s.users = auth.NewMemoryUserRepo()
		s.refresh = auth.NewMemoryRefreshRepo()
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.CartBackend {
	case config.BackendRedis:
		client, err := db.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		ttl := time.Duration(cfg.CartTTLHours) * time.Hour
		s.carts = cart.NewRedisStore(client, redisPrefix, ttl)
		s.views = history.NewRedisStore(client, redisPrefix, ttl)
	case config.BackendMemory:
		s.carts = cart.NewMemoryStore()
		s.views = history.NewMemoryStore()
	default:
		s.Close()
		return nil, fmt.Errorf("unknown CART_BACKEND %q", cfg.CartBackend)
	}

	log.Info("stores ready",
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("cart_backend", cfg.CartBackend),
	)
	return s, nil
}

func openPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := db.NewPostgres(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return pool, nil
}
