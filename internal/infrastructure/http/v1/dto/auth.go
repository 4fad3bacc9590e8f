package dto

import (
	"time"

	"posledger/internal/domain/auth"
)

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=128"`
}

// ToCredentials converts the form.
func (r LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Username: r.Username, Password: r.Password}
}

// UserResponse is the signed-in operator.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// FromUser maps a user.
func FromUser(u *auth.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}

// LoginResponse carries the access token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// NewLoginResponse combines token and user.
func NewLoginResponse(t *auth.Token, u *auth.User) LoginResponse {
	return LoginResponse{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresAt:   t.ExpiresAt,
		User:        FromUser(u),
	}
}
