package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
	ImageHint string          `json:"image_hint"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InStock reports whether any units are left.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Name      *string          `json:"name,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	ImageURL  *string          `json:"image_url,omitempty"`
	ImageHint *string          `json:"image_hint,omitempty"`
}

func (p Product) Apply(in Patch) Product {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.ImageHint != nil {
		p.ImageHint = *in.ImageHint
	}
	return p
}

func (in Patch) IsEmpty() bool {
	return in.Name == nil && in.Price == nil && in.Quantity == nil && in.ImageURL == nil && in.ImageHint == nil
}
