package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"posledger/internal/core/apperror"
	appctx "posledger/internal/core/context"
	"posledger/internal/core/id"
	"posledger/internal/core/tx"
	"posledger/pkg/logger"
)

// PasswordMinLength is the shortest accepted password.
const PasswordMinLength = 8

// Service provides login and current-user lookup.
type Service struct {
	users      UserRepository
	txManager  tx.Manager
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(users UserRepository, txManager tx.Manager, jwtService *JWTService) *Service {
	return &Service{users: users, txManager: txManager, jwtService: jwtService}
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		logger.Warn(ctx, "login failed", "username", creds.Username)
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	access, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.Username)
	if err != nil {
		return nil, nil, err
	}

	now := s.jwtService.now().UTC()
	if err := s.users.TouchLogin(ctx, user.ID, now); err != nil {
		logger.Warn(ctx, "failed to record login time", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	return &Token{AccessToken: access, TokenType: "Bearer", ExpiresAt: expiresAt}, user, nil
}

// Me returns the user attached to ctx.
func (s *Service) Me(ctx context.Context) (*User, error) {
	uc := appctx.GetUser(ctx)
	if uc == nil {
		return nil, apperror.NewUnauthorized("not authenticated")
	}
	userID, err := id.Parse(uc.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token subject")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// EnsureUser creates the user or resets its password. Used by seeding.
func (s *Service) EnsureUser(ctx context.Context, username, password string) (*User, error) {
	if len(password) < PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", PasswordMinLength),
		).WithDetail("field", "password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *User
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByUsername(ctx, username)
		switch {
		case err == nil:
			existing.PasswordHash = string(hash)
			user = existing
			return s.users.UpdatePassword(ctx, existing.ID, string(hash))
		case apperror.IsNotFound(err):
			user = NewUser(username, string(hash))
			return s.users.Create(ctx, user)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
