// Package warehouse fulfils placed orders: it marks them Delivered, mails
// the receipt and keeps a running tally of units shipped.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
	"github.com/Prabhu-B-26/FreshCart/internal/events"
	"github.com/Prabhu-B-26/FreshCart/internal/mail"
	"github.com/Prabhu-B-26/FreshCart/internal/orders"
)

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}

type Stats struct {
	Orders int64
	Units  map[string]int64
}

type Fulfiller struct {
	orders StatusUpdater
	mailer mail.Mailer
	log    *zap.Logger

	mu    sync.Mutex
	total int64
	units map[string]int64
}

func NewFulfiller(orders StatusUpdater, mailer mail.Mailer, log *zap.Logger) *Fulfiller {
	if mailer == nil {
		mailer = mail.NopMailer{}
	}
	return &Fulfiller{orders: orders, mailer: mailer, log: log, units: make(map[string]int64)}
}

// Handle satisfies events.OrderHandler. An order that no longer exists is
// logged and acknowledged; a failed status write is returned.
func (f *Fulfiller) Handle(ctx context.Context, evt events.OrderPlaced) error {
	o, err := f.orders.UpdateStatus(ctx, evt.OrderID, order.StatusDelivered)
	if errors.Is(err, orders.ErrNotFound) {
		f.log.Warn("order vanished before fulfilment", zap.String("order_id", evt.OrderID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}

	f.tally(evt)

	if evt.UserEmail != "" {
		subject := fmt.Sprintf("Your FreshCart order %s", o.ID)
		if err := f.mailer.Send(ctx, evt.UserEmail, subject, orders.Receipt(o, evt.UserEmail)); err != nil {
			f.log.Warn("receipt mail failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	f.log.Info("order delivered", zap.String("order_id", o.ID), zap.String("user_id", o.UserID))
	return nil
}

func (f *Fulfiller) tally(evt events.OrderPlaced) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.total++
	for _, it := range evt.Items {
		f.units[it.ID] += int64(it.Quantity)
	}
}

func (f *Fulfiller) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	units := make(map[string]int64, len(f.units))
	for k, v := range f.units {
		units[k] = v
	}
	return Stats{Orders: f.total, Units: units}
}
