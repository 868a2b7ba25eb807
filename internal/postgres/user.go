package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/sif/internal/domain"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that UserStore implements domain.UserStore.
var _ domain.UserStore = (*UserStore)(nil)

// NewUserStore creates a new PostgreSQL-backed user store.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) CreateUser(ctx context.Context, email, passwordHash string) (*domain.Account, error) {
	const op = "user.create"

	var account domain.Account
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at`,
		email, passwordHash,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.Internal(err, op, "failed to create user")
	}

	return &account, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const op = "user.get_by_email"

	var account domain.Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1`,
		email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, op, "failed to get user")
	}

	return &account, nil
}
