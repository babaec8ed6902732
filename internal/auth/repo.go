package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socdash/socdash/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Credential, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByUsername fetches login credentials by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*Credential, error) {
	var cred Credential
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, username, role, password_hash
		FROM users WHERE username = $1`, username)
	if err := row.Scan(&cred.ID, &cred.Email, &cred.Username, &cred.Role, &cred.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}
	return &cred, nil
}

var _ Repository = (*PGRepository)(nil)
