// Package events carries order events over RabbitMQ.
package events

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
)

// OrderPlaced is published once per successful checkout.
type OrderPlaced struct {
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	UserEmail string          `json:"user_email,omitempty"`
	Items     []order.Item    `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

func NewOrderPlaced(o order.Order) OrderPlaced {
	return OrderPlaced{
		OrderID:   o.ID,
		UserID:    o.UserID,
		UserEmail: o.UserEmail,
		Items:     o.Items,
		Total:     o.Total,
	}
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
