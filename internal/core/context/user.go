// Package context provides request-scoped values extraction.
//
// Every domain operation receives the acting user through ctx rather than
// from process-wide state.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID   string
	Username string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetUsername returns the username or "system" when no user is attached.
func GetUsername(ctx context.Context) string {
	if u := GetUser(ctx); u != nil && u.Username != "" {
		return u.Username
	}
	return "system"
}
