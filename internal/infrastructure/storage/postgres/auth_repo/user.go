// Package auth_repo provides the PostgreSQL user store.
package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/domain/auth"
	"posledger/internal/infrastructure/storage/postgres"
)

const userColumns = `id, username, password_hash, is_active, created_at, last_login_at`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
}

var _ auth.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO users (id, username, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.IsActive, user.CreatedAt,
	)
	if err != nil {
		return postgres.MapWriteError("user", fmt.Errorf("insert user: %w", err))
	}
	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, userID.String(), query, userID)
}

// GetByUsername retrieves user by username, ignoring case.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1)`
	return r.getOne(ctx, username, query, username)
}

func (r *UserRepo) getOne(ctx context.Context, key, query string, args ...any) (*auth.User, error) {
	var user auth.User
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdatePassword replaces the password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID id.ID, passwordHash string) error {
	return r.execOne(ctx, userID,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
}

// TouchLogin records a successful sign-in.
func (r *UserRepo) TouchLogin(ctx context.Context, userID id.ID, at time.Time) error {
	return r.execOne(ctx, userID,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, userID, at)
}

func (r *UserRepo) execOne(ctx context.Context, userID id.ID, query string, args ...any) error {
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}
	return nil
}
