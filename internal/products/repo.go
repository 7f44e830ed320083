package products

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/product"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrInvalid  = errors.New("invalid product")
)

// Repo is the product collection. Writes are last-write-wins.
type Repo interface {
	List(ctx context.Context) ([]product.Product, error)
	Search(ctx context.Context, query string) ([]product.Product, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Create(ctx context.Context, in CreateProductInput) (product.Product, error)
	Update(ctx context.Context, id string, patch product.Patch) (product.Product, error)
	Delete(ctx context.Context, id string) error
}

type CreateProductInput struct {
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  string
	ImageHint string
}

func (in CreateProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Join(ErrInvalid, errors.New("name is required"))
	}
	if in.Price.IsNegative() {
		return errors.Join(ErrInvalid, errors.New("price must be non-negative"))
	}
	if in.Quantity < 0 {
		return errors.Join(ErrInvalid, errors.New("quantity must be non-negative"))
	}
	return nil
}

func ValidatePatch(p product.Patch) error {
	if p.IsEmpty() {
		return errors.Join(ErrInvalid, errors.New("nothing to update"))
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.Join(ErrInvalid, errors.New("name must not be empty"))
	}
	if p.Price != nil && p.Price.IsNegative() {
		return errors.Join(ErrInvalid, errors.New("price must be non-negative"))
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return errors.Join(ErrInvalid, errors.New("quantity must be non-negative"))
	}
	return nil
}

func matches(p product.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(query)))
}
