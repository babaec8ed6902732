package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socdash/socdash/internal/platform/db"
	"github.com/socdash/socdash/internal/shared"
)

// ActivationParams carries the credential set applied when a token is redeemed.
type ActivationParams struct {
	Username     string
	Name         string
	PasswordHash string
}

// Repository defines persistence operations for the account lifecycle.
type Repository interface {
	CreateInvited(ctx context.Context, user User) error
	ActivateByToken(ctx context.Context, token string, params ActivationParams) (*User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExpireTrial(ctx context.Context, id uuid.UUID) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const uniqueViolation = "23505"

// CreateInvited inserts an invitation row. The unique constraint on email is
// the single source of truth for duplicates; there is no separate existence
// check, so two concurrent invitations for the same address cannot both land.
func (r *PGRepository) CreateInvited(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, role, is_activated, activation_token, is_trial, created_at, updated_at)
		VALUES ($1, $2, $3, false, $4, $5, NOW(), NOW())`,
		user.ID, user.Email, user.Role, user.ActivationToken, user.IsTrial)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shared.ErrEmailTaken
		}
		return err
	}
	return nil
}

// ActivateByToken redeems an activation token. The row is locked for the span
// of the transaction so a token redeems at most once even under concurrent
// requests.
func (r *PGRepository) ActivateByToken(ctx context.Context, token string, params ActivationParams) (*User, error) {
	var user User
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT id, email, role, is_trial, created_at
			FROM users
			WHERE activation_token = $1 AND is_activated = false
			FOR UPDATE`, token)
		if err := row.Scan(&user.ID, &user.Email, &user.Role, &user.IsTrial, &user.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrInvalidToken
			}
			return err
		}
		now := time.Now().UTC()
		_, err := tx.Exec(ctx, `
			UPDATE users
			SET username = $2, name = $3, password_hash = $4,
			    is_activated = true, activation_token = NULL, updated_at = $5
			WHERE id = $1`,
			user.ID, params.Username, params.Name, params.PasswordHash, now)
		if err != nil {
			return err
		}
		user.Username = &params.Username
		user.Name = &params.Name
		user.IsActivated = true
		user.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by creation time.
func (r *PGRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, username, name, role, is_activated, is_trial, created_at, updated_at
		FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.Name, &user.Role,
			&user.IsActivated, &user.IsTrial, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user row. Audit log entries are intentionally left behind.
func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExpireTrial flips a trial account back to the deactivated state without
// touching the (already cleared) activation token. Returns the affected user
// so callers can notify the address.
func (r *PGRepository) ExpireTrial(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET is_activated = false, updated_at = NOW()
		WHERE id = $1 AND is_trial = true
		RETURNING id, email, username, role, is_trial, created_at, updated_at`, id)
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.Role,
		&user.IsTrial, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
