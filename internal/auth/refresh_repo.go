package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RefreshRepo tracks issued refresh tokens by hash so they can be rotated
// and revoked.
type RefreshRepo interface {
	Store(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// Consume revokes a live token and reports whether this call did it.
	// Of several concurrent calls with the same token, at most one wins.
	Consume(ctx context.Context, userID, tokenHash string) (bool, error)
	Revoke(ctx context.Context, userID, tokenHash string) error
}

type refreshEntry struct {
	expiresAt time.Time
	revoked   bool
}

type MemoryRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
}

func NewMemoryRefreshRepo() *MemoryRefreshRepo {
	return &MemoryRefreshRepo{tokens: make(map[string]refreshEntry)}
}

func (r *MemoryRefreshRepo) Store(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID+":"+tokenHash] = refreshEntry{expiresAt: expiresAt}
	return nil
}

func (r *MemoryRefreshRepo) Consume(_ context.Context, userID, tokenHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + ":" + tokenHash
	e, ok := r.tokens[key]
	if !ok || e.revoked || !time.Now().Before(e.expiresAt) {
		return false, nil
	}
	e.revoked = true
	r.tokens[key] = e
	return true, nil
}

func (r *MemoryRefreshRepo) Revoke(_ context.Context, userID, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + ":" + tokenHash
	if e, ok := r.tokens[key]; ok {
		e.revoked = true
		r.tokens[key] = e
	}
	return nil
}

type PostgresRefreshRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRefreshRepo(db *pgxpool.Pool) *PostgresRefreshRepo {
	return &PostgresRefreshRepo{db: db}
}

func (r *PostgresRefreshRepo) Store(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1,$2,$3)
	`, userID, tokenHash, expiresAt)
	return err
}

func (r *PostgresRefreshRepo) Consume(ctx context.Context, userID, tokenHash string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at=now()
		WHERE user_id=$1 AND token_hash=$2
		  AND revoked_at IS NULL
		  AND expires_at > now()
	`, userID, tokenHash)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *PostgresRefreshRepo) Revoke(ctx context.Context, userID, tokenHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at=now()
		WHERE user_id=$1 AND token_hash=$2 AND revoked_at IS NULL
	`, userID, tokenHash)
	return err
}
