package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "posledger/internal/core/context"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "posledger",
		AccessTokenTTL: 12 * time.Hour,
	}
}

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"usr"`
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config, now: time.Now}
}

// GenerateAccessToken signs a token for the user.
func (s *JWTService) GenerateAccessToken(userID, username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a token and returns the user it was issued to.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &appctx.UserContext{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}
