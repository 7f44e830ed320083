package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
)

func (s Status) Valid() bool {
	return s == StatusProcessing || s == StatusDelivered
}

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// LineTotal is price * quantity.
func (it Item) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UserEmail string          `json:"user_email,omitempty"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
