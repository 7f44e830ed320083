package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
)

// PostgresRepo keeps each order as a JSONB document; user_id stands in for
// the per-user order subcollection.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, o order.Order) error {
	doc, err := json.Marshal(o)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, doc, created_at)
		VALUES ($1,$2,$3,$4)
	`, o.ID, o.UserID, doc, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListForUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT doc FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []order.Order{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		o, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, userID, orderID string) (order.Order, error) {
	return r.one(ctx, `SELECT doc FROM orders WHERE id=$1 AND user_id=$2`, orderID, userID)
}

func (r *PostgresRepo) GetByID(ctx context.Context, orderID string) (order.Order, error) {
	return r.one(ctx, `SELECT doc FROM orders WHERE id=$1`, orderID)
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error) {
	if !status.Valid() {
		return order.Order{}, ErrInvalidStatus
	}
	return r.one(ctx, `
		UPDATE orders
		SET doc = jsonb_set(doc, '{status}', to_jsonb($2::text))
		WHERE id = $1
		RETURNING doc
	`, orderID, string(status))
}

func (r *PostgresRepo) one(ctx context.Context, q string, args ...any) (order.Order, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, q, args...).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, ErrNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("load order: %w", err)
	}
	return decode(doc)
}

func decode(doc []byte) (order.Order, error) {
	var o order.Order
	if err := json.Unmarshal(doc, &o); err != nil {
		return order.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return o, nil
}
