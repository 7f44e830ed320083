package orders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
	"github.com/Prabhu-B-26/FreshCart/internal/util"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Repo stores orders per user. Orders are written once; only status moves.
type Repo interface {
	Create(ctx context.Context, o order.Order) error
	ListForUser(ctx context.Context, userID string) ([]order.Order, error)
	// Get is scoped to the owner: another user's order reads as not found.
	Get(ctx context.Context, userID, orderID string) (order.Order, error)
	GetByID(ctx context.Context, orderID string) (order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}

type MemoryRepo struct {
	mu      sync.RWMutex
	orders  []order.Order
	latency time.Duration
}

func NewMemoryRepo(latency time.Duration) *MemoryRepo {
	return &MemoryRepo{latency: latency}
}

func (r *MemoryRepo) Create(ctx context.Context, o order.Order) error {
	if err := util.Delay(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return nil
}

func (r *MemoryRepo) ListForUser(ctx context.Context, userID string) ([]order.Order, error) {
	if err := util.Delay(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []order.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, orderID string) (order.Order, error) {
	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}
	if o.UserID != userID {
		return order.Order{}, ErrNotFound
	}
	return o, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, orderID string) (order.Order, error) {
	if err := util.Delay(ctx, r.latency); err != nil {
		return order.Order{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return order.Order{}, ErrNotFound
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error) {
	if !status.Valid() {
		return order.Order{}, ErrInvalidStatus
	}
	if err := util.Delay(ctx, r.latency); err != nil {
		return order.Order{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == orderID {
			r.orders[i].Status = status
			return r.orders[i], nil
		}
	}
	return order.Order{}, ErrNotFound
}
