package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/user"
	"github.com/Prabhu-B-26/FreshCart/internal/util"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
)

type UserRepo interface {
	Create(ctx context.Context, email, displayName, passwordHash string) (user.User, error)
	ByEmail(ctx context.Context, email string) (user.User, error)
	ByID(ctx context.Context, id string) (user.User, error)
}

type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewMemoryUserRepo(seed ...user.User) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]user.User)}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *MemoryUserRepo) Create(_ context.Context, email, displayName, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = normalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return user.User{}, ErrEmailTaken
		}
	}
	u := user.User{
		ID:           util.NewID("user"),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepo) ByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = normalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, ErrUserNotFound
}

func (r *MemoryUserRepo) ByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return user.User{}, ErrUserNotFound
	}
	return u, nil
}

type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (r *PostgresUserRepo) Create(ctx context.Context, email, displayName, passwordHash string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, display_name, password_hash)
		VALUES ($1,$2,$3,$4)
		RETURNING id, email, display_name, password_hash, created_at
	`, util.NewID("user"), normalizeEmail(email), displayName, passwordHash).Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return user.User{}, ErrEmailTaken
	}
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) ByEmail(ctx context.Context, email string) (user.User, error) {
	return r.one(ctx, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users WHERE email=$1
	`, normalizeEmail(email))
}

func (r *PostgresUserRepo) ByID(ctx context.Context, id string) (user.User, error) {
	return r.one(ctx, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users WHERE id=$1
	`, id)
}

func (r *PostgresUserRepo) one(ctx context.Context, q string, arg string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, ErrUserNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
