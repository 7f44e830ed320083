package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/ai"
	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/cart"
	"github.com/Prabhu-B-26/FreshCart/internal/config"
	"github.com/Prabhu-B-26/FreshCart/internal/events"
	"github.com/Prabhu-B-26/FreshCart/internal/logging"
	"github.com/Prabhu-B-26/FreshCart/internal/orders"
	"github.com/Prabhu-B-26/FreshCart/internal/products"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New("api", cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURI != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURI)
		if err != nil {
			return err
		}
		defer conn.Close()

		rp, err := events.NewRabbitPublisher(conn, cfg.OrdersQueue)
		if err != nil {
			return err
		}
		defer rp.Close()
		publisher = rp
	} else {
		log.Warn("RABBITMQ_URI not set, order events are dropped")
	}

	var gen ai.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		gen = g
	} else {
		log.Warn("GEMINI_API_KEY not set, AI endpoints return empty lists")
	}

	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer:         cfg.JWTIssuer,
		AccessSecret:   cfg.JWTAccessSecret,
		RefreshSecret:  cfg.JWTRefreshSecret,
		AccessTTLMin:   cfg.AccessTokenTTLMin,
		RefreshTTLDays: cfg.RefreshTokenTTLDays,
	})

	authHandler := auth.NewHandler(auth.Dependencies{
		Cfg:     cfg,
		JWT:     jwtMgr,
		Users:   st.users,
		Refresh: st.refresh,
		Log:     log,
	})
	prodHandler := products.NewHandler(st.products, st.views, log)
	cartHandler := cart.NewHandler(st.carts, st.products, log)
	orderSvc := orders.NewService(st.orders, st.carts, publisher, log)
	orderHandler := orders.NewHandler(orderSvc, log)
	aiHandler := ai.NewHandler(gen, st.products, st.orders, st.views, log)

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.Recovery(log), logging.Middleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	optional := auth.OptionalAuth(jwtMgr)
	required := auth.AuthMiddleware(jwtMgr)

	authGroup := api.Group("/auth")
	{
		if cfg.AuthMode == config.AuthModeMock {
			authGroup.POST("/mock-login", authHandler.MockLogin)
		} else {
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Public catalog routes (no login required)
	api.GET("/products", prodHandler.ListPublic)
	api.GET("/products/:id", optional, prodHandler.GetPublic)
	api.GET("/search/suggestions", aiHandler.Suggestions)

	// Guests shop with X-Session-ID; signed-in users get their own cart.
	cartGroup := api.Group("/cart", optional)
	{
		cartGroup.GET("", cartHandler.GetMyCart)
		cartGroup.DELETE("", cartHandler.Clear)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PATCH("/items/:id", cartHandler.UpdateQty)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	protected := api.Group("/", required)
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/cart/merge", cartHandler.Merge)

		protected.POST("/checkout", orderHandler.Checkout)
		protected.GET("/orders", orderHandler.ListMine)
		protected.GET("/orders/:id", orderHandler.GetMine)
		protected.GET("/orders/:id/receipt", orderHandler.ReceiptMine)

		protected.GET("/recommendations", aiHandler.Recommendations)

		adminOnly := protected.Group("/admin", auth.RequireAdmin())
		adminOnly.POST("/products", prodHandler.AdminCreate)
		adminOnly.PATCH("/products/:id", prodHandler.AdminUpdate)
		adminOnly.DELETE("/products/:id", prodHandler.AdminDelete)
		adminOnly.PATCH("/orders/:id/status", orderHandler.AdminUpdateStatus)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("auth_mode", cfg.AuthMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
