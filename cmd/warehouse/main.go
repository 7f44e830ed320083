package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/config"
	"github.com/Prabhu-B-26/FreshCart/internal/db"
	"github.com/Prabhu-B-26/FreshCart/internal/events"
	"github.com/Prabhu-B-26/FreshCart/internal/logging"
	"github.com/Prabhu-B-26/FreshCart/internal/mail"
	"github.com/Prabhu-B-26/FreshCart/internal/orders"
	"github.com/Prabhu-B-26/FreshCart/internal/warehouse"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New("warehouse", cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("warehouse stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	if cfg.RabbitMQURI == "" {
		return errors.New("RABBITMQ_URI is required")
	}
	// Orders must be shared with the api process, so only Postgres works here.
	if cfg.StoreBackend != config.BackendPostgres {
		return errors.New("warehouse needs STORE_BACKEND=postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	conn, err := amqp.Dial(cfg.RabbitMQURI)
	if err != nil {
		return err
	}
	defer conn.Close()

	mailer := mail.New(mail.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST not set, receipts are not mailed")
	}

	f := warehouse.NewFulfiller(orders.NewPostgresRepo(pool), mailer, log)
	consumer := events.NewConsumer(conn, cfg.OrdersQueue, cfg.WarehouseWorkers, log)

	log.Info("consuming", zap.String("queue", cfg.OrdersQueue), zap.Int("workers", cfg.WarehouseWorkers))
	err = consumer.Run(ctx, f.Handle)

	stats := f.Stats()
	log.Info("warehouse summary", zap.Int64("orders", stats.Orders), zap.Any("units", stats.Units))

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
