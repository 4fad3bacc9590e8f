package auth

import (
	"context"
	"time"

	"posledger/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, userID id.ID, passwordHash string) error
	TouchLogin(ctx context.Context, userID id.ID, at time.Time) error
}
