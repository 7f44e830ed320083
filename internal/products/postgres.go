package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/product"
	"github.com/Prabhu-B-26/FreshCart/internal/util"
)

// PostgresRepo stores each product as a JSONB document.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT doc FROM products
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collect(rows)
}

func (r *PostgresRepo) Search(ctx context.Context, query string) ([]product.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT doc FROM products
		WHERE strpos(lower(doc->>'name'), lower($1)) > 0
		ORDER BY created_at DESC
	`, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return collect(rows)
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (product.Product, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM products WHERE id=$1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, ErrNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return decode(doc)
}

func (r *PostgresRepo) Create(ctx context.Context, in CreateProductInput) (product.Product, error) {
	if err := in.Validate(); err != nil {
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
	doc, err := json.Marshal(p)
	if err != nil {
		return product.Product{}, err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO products (id, doc, created_at)
		VALUES ($1, $2, $3)
	`, p.ID, doc, now)
	if err != nil {
		return product.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// Update merges the non-nil patch fields into the stored document.
func (r *PostgresRepo) Update(ctx context.Context, id string, patch product.Patch) (product.Product, error) {
	if err := ValidatePatch(patch); err != nil {
		return product.Product{}, err
	}
	fields, err := json.Marshal(patch)
	if err != nil {
		return product.Product{}, err
	}
	stamp, err := json.Marshal(map[string]time.Time{"updated_at": time.Now().UTC()})
	if err != nil {
		return product.Product{}, err
	}

	var doc []byte
	err = r.db.QueryRow(ctx, `
		UPDATE products
		SET doc = doc || $2::jsonb || $3::jsonb
		WHERE id = $1
		RETURNING doc
	`, id, fields, stamp).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, ErrNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return decode(doc)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]product.Product, error) {
	defer rows.Close()

	out := []product.Product{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		p, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func decode(doc []byte) (product.Product, error) {
	var p product.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return product.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return p, nil
}
