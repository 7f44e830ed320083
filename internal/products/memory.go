package products

import (
	"context"
	"sync"
	"time"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/product"
	"github.com/Prabhu-B-26/FreshCart/internal/util"
)

// MemoryRepo keeps the catalog in a slice, newest first. It is the mock
// layer used when no database is configured.
type MemoryRepo struct {
	mu       sync.RWMutex
	products []product.Product
	latency  time.Duration
}

func NewMemoryRepo(latency time.Duration, seed ...product.Product) *MemoryRepo {
	items := make([]product.Product, len(seed))
	copy(items, seed)
	return &MemoryRepo{products: items, latency: latency}
}

func (r *MemoryRepo) List(ctx context.Context) ([]product.Product, error) {
	if err := util.Delay(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryRepo) Search(ctx context.Context, query string) ([]product.Product, error) {
	if err := util.Delay(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []product.Product{}
	for _, p := range r.products {
		if matches(p, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (product.Product, error) {
	if err := util.Delay(ctx, r.latency); err != nil {
		return product.Product{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return product.Product{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, in CreateProductInput) (product.Product, error) {
	if err := in.Validate(); err != nil {
		return product.Product{}, err
	}
	if err := util.Delay(ctx, r.latency); err != nil {
		return product.Product{}, err
	}

	now := time.Now().UTC()
	p := product.Product{
		ID:        util.NewID("prod"),
		Name:      in.Name,
		Price:     in.Price,
		Quantity:  in.Quantity,
		ImageURL:  in.ImageURL,
		ImageHint: in.ImageHint,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append([]product.Product{p}, r.products...)
	return p, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, patch product.Patch) (product.Product, error) {
	if err := ValidatePatch(patch); err != nil {
		return product.Product{}, err
	}
	if err := util.Delay(ctx, r.latency); err != nil {
		return product.Product{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return product.Product{}, ErrNotFound
	}
	p := r.products[i].Apply(patch)
	p.UpdatedAt = time.Now().UTC()
	r.products[i] = p
	return p, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := util.Delay(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

// caller holds mu
func (r *MemoryRepo) indexOf(id string) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
