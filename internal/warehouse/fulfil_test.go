package warehouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
	"github.com/Prabhu-B-26/FreshCart/internal/events"
	"github.com/Prabhu-B-26/FreshCart/internal/orders"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func placedOrder(t *testing.T, repo *orders.MemoryRepo) order.Order {
	t.Helper()
	o := order.Order{
		ID:        "order_1",
		UserID:    "u1",
		UserEmail: "u1@example.com",
		Items:     []order.Item{{ID: "prod_milk", Name: "Milk", Price: decimal.NewFromInt(2), Quantity: 3}},
		Total:     decimal.NewFromInt(6),
		Status:    order.StatusProcessing,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestHandleMarksDeliveredAndMails(t *testing.T) {
	repo := orders.NewMemoryRepo(0)
	o := placedOrder(t, repo)
	mailer := &fakeMailer{}
	f := NewFulfiller(repo, mailer, zap.NewNop())

	require.NoError(t, f.Handle(context.Background(), events.NewOrderPlaced(o)))

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, got.Status)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "u1@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "Order ID: order_1")

	stats := f.Stats()
	assert.Equal(t, int64(1), stats.Orders)
	assert.Equal(t, int64(3), stats.Units["prod_milk"])
}

func TestHandleMailFailureIsNotFatal(t *testing.T) {
	repo := orders.NewMemoryRepo(0)
	o := placedOrder(t, repo)
	f := NewFulfiller(repo, &fakeMailer{err: errors.New("smtp down")}, zap.NewNop())

	assert.NoError(t, f.Handle(context.Background(), events.NewOrderPlaced(o)))
}

func TestHandleMissingOrderIsAcked(t *testing.T) {
	f := NewFulfiller(orders.NewMemoryRepo(0), nil, zap.NewNop())

	assert.NoError(t, f.Handle(context.Background(), events.OrderPlaced{OrderID: "order_gone"}))
	assert.Equal(t, int64(0), f.Stats().Orders)
}

type brokenRepo struct{}

func (brokenRepo) UpdateStatus(context.Context, string, order.Status) (order.Order, error) {
	return order.Order{}, errors.New("db down")
}

func TestHandleStatusWriteFailure(t *testing.T) {
	f := NewFulfiller(brokenRepo{}, nil, zap.NewNop())

	assert.Error(t, f.Handle(context.Background(), events.OrderPlaced{OrderID: "order_1"}))
}
