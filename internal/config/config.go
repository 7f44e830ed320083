package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	AuthModeMock = "mock"
	AuthModeReal = "real"
)

type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel string

	// StoreBackend selects where products, orders and users live.
	StoreBackend string
	DatabaseURL  string
	// MockLatencyMs delays every memory-store call, like a remote round trip.
	MockLatencyMs int

	// CartBackend selects where carts and view history live.
	CartBackend  string
	RedisURL     string
	CartTTLHours int

	AuthMode   string
	AdminEmail string

	JWTIssuer           string
	JWTAccessSecret     string
	JWTRefreshSecret    string
	AccessTokenTTLMin   int
	RefreshTokenTTLDays int

	GeminiAPIKey string
	GeminiModel  string

	RabbitMQURI      string
	OrdersQueue      string
	WarehouseWorkers int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func Load() Config {
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		HTTPAddr: get("HTTP_ADDR", ":8080"),
		LogLevel: get("LOG_LEVEL", "info"),

		StoreBackend:  strings.ToLower(get("STORE_BACKEND", BackendMemory)),
		DatabaseURL:   get("DATABASE_URL", ""),
		MockLatencyMs: getInt("MOCK_LATENCY_MS", 0),

		CartBackend:  strings.ToLower(get("CART_BACKEND", BackendMemory)),
		RedisURL:     get("REDIS_URL", "redis://localhost:6379/0"),
		CartTTLHours: getInt("CART_TTL_HOURS", 72),

		AuthMode:   strings.ToLower(get("AUTH_MODE", AuthModeMock)),
		AdminEmail: get("ADMIN_EMAIL", "admin@example.com"),

		JWTIssuer:           get("JWT_ISSUER", "freshcart"),
		JWTAccessSecret:     get("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret:    get("JWT_REFRESH_SECRET", ""),
		AccessTokenTTLMin:   getInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTokenTTLDays: getInt("REFRESH_TOKEN_TTL_DAYS", 30),

		GeminiAPIKey: get("GEMINI_API_KEY", ""),
		GeminiModel:  get("GEMINI_MODEL", "gemini-2.0-flash"),

		RabbitMQURI:      get("RABBITMQ_URI", ""),
		OrdersQueue:      get("ORDERS_QUEUE", "orders"),
		WarehouseWorkers: getInt("WAREHOUSE_WORKERS", 4),

		SMTPHost: get("SMTP_HOST", ""),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: get("SMTP_USER", ""),
		SMTPPass: get("SMTP_PASS", ""),
		SMTPFrom: get("SMTP_FROM", ""),
	}
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
