package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"posledger/internal/core/apperror"
	appctx "posledger/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth middleware validates bearer tokens and puts the operator into the
// request context. Every operation below it reads the user from there.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil || user == nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Set(KeyUserID, user.UserID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
