package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/cart"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
	"github.com/Prabhu-B-26/FreshCart/internal/events"
	"github.com/Prabhu-B-26/FreshCart/internal/util"
)

var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	repo      Repo
	carts     cart.Store
	publisher events.Publisher
	log       *zap.Logger
}

func NewService(repo Repo, carts cart.Store, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, carts: carts, publisher: publisher, log: log}
}

// Checkout turns the caller's cart into a Processing order and empties the
// cart. Stock is not touched and there is no idempotency key: two calls
// with a refilled cart make two orders.
func (s *Service) Checkout(ctx context.Context, who auth.Principal, payment PaymentDetails) (order.Order, error) {
	if err := payment.Validate(); err != nil {
		return order.Order{}, err
	}

	key := cart.UserKey(who.UserID)
	crt, err := s.carts.Get(ctx, key)
	if err != nil {
		return order.Order{}, fmt.Errorf("load cart: %w", err)
	}
	if crt.IsEmpty() {
		return order.Order{}, ErrEmptyCart
	}

	items := make([]order.Item, 0, len(crt.Items))
	for _, it := range crt.Items {
		items = append(items, order.Item{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	o := order.Order{
		ID:        util.NewID("order"),
		UserID:    who.UserID,
		UserEmail: who.Email,
		Items:     items,
		Total:     crt.Total(),
		Status:    order.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return order.Order{}, fmt.Errorf("save order: %w", err)
	}

	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(o)); err != nil {
		s.log.Error("publish order failed", zap.String("order_id", o.ID), zap.Error(err))
	}

	if err := s.carts.Delete(ctx, key); err != nil {
		s.log.Warn("clear cart failed", zap.String("user_id", who.UserID), zap.Error(err))
	}

	s.log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("total", o.Total.StringFixed(2)),
		zap.Int("items", len(o.Items)),
	)
	return o, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]order.Order, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (order.Order, error) {
	return s.repo.Get(ctx, userID, orderID)
}

func (s *Service) UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error) {
	return s.repo.UpdateStatus(ctx, orderID, status)
}
