package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("ADMIN_EMAIL", "")

	cfg := Load()
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, AuthModeMock, cfg.AuthMode)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
	assert.Equal(t, 15, cfg.AccessTokenTTLMin)
	assert.Equal(t, "orders", cfg.OrdersQueue)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("CART_TTL_HOURS", "12")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 12, cfg.CartTTLHours)
	assert.Equal(t, 587, cfg.SMTPPort)
}
