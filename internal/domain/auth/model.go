// Package auth provides login and access-token handling.
package auth

import (
	"strings"
	"time"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
)

// User is an operator who may sign in.
type User struct {
	ID           id.ID      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

// NewUser creates an active user.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           id.New(),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// Credentials is a login request.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
