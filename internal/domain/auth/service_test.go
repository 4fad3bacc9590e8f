package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posledger/internal/core/apperror"
	appctx "posledger/internal/core/context"
	"posledger/internal/domain/auth"
	"posledger/internal/testing/memstore"
)

func newService(t *testing.T) (*auth.Service, *auth.JWTService) {
	t.Helper()
	store := memstore.New()
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("0123456789abcdef0123"))
	return auth.NewService(store.Users(), store.TxManager(), jwtSvc), jwtSvc
}

func TestLogin(t *testing.T) {
	svc, jwtSvc := newService(t)
	ctx := context.Background()

	_, err := svc.EnsureUser(ctx, "admin", "s3cret-pass")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, auth.Credentials{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotNil(t, user.LastLoginAt)

	uc, err := jwtSvc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)

	me, err := svc.Me(appctx.WithUser(ctx, uc))
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.EnsureUser(ctx, "admin", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, auth.Credentials{Username: "admin", Password: "wrong"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))

	_, _, err = svc.Login(ctx, auth.Credentials{Username: "ghost", Password: "s3cret-pass"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestEnsureUser_ResetsPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "admin", "first-pass")
	require.NoError(t, err)
	second, err := svc.EnsureUser(ctx, "admin", "second-pass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = svc.Login(ctx, auth.Credentials{Username: "admin", Password: "second-pass"})
	assert.NoError(t, err)

	_, err = svc.EnsureUser(ctx, "admin", "short")
	assert.True(t, apperror.IsValidation(err))
}

func TestMe_Unauthenticated(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Me(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}
