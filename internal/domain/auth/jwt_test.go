package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("0123456789abcdef0123"))

	token, expiresAt, err := svc.GenerateAccessToken("u-1", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", uc.UserID)
	assert.Equal(t, "admin", uc.Username)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("0123456789abcdef0123"))
	other := NewJWTService(DefaultJWTConfig("fedcba9876543210fedc"))

	token, _, err := issuer.GenerateAccessToken("u-1", "admin")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("0123456789abcdef0123"))
	svc.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }

	token, _, err := svc.GenerateAccessToken("u-1", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("0123456789abcdef0123"))
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
