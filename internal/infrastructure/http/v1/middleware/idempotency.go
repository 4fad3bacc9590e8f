package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/core/apperror"
	appctx "posledger/internal/core/context"
	"posledger/internal/infrastructure/storage/postgres"
	"posledger/pkg/logger"
)

const (
	HeaderIdempotencyKey    = "X-Idempotency-Key"
	maxIdempotencyKeyLen    = 128
	maxIdempotencyBodyBytes = 1 << 20
	keyIdempotency          = "idempotency_key"
	keyIdempotencyStore     = "idempotency_store"
)

// IdempotencyStore remembers the outcome of keyed requests.
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*postgres.IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
}

// Idempotency replays the stored response of a POST/PUT/PATCH that was
// already handled under the same X-Idempotency-Key. Requests without the
// header pass through.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			_ = c.Error(apperror.NewInvalidInput("idempotency key is too long").
				WithDetail("max_length", maxIdempotencyKeyLen))
			c.Abort()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1))
		if err != nil {
			_ = c.Error(apperror.NewInvalidInput("cannot read request body"))
			c.Abort()
			return
		}
		if len(body) > maxIdempotencyBodyBytes {
			appErr := apperror.NewValidation("request body too large for idempotency")
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			_ = c.Error(appErr.WithDetail("max_bytes", maxIdempotencyBodyBytes))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)

		operation := c.Request.Method + " " + c.FullPath()
		userID := appctx.GetUserID(c.Request.Context())

		replay, err := store.AcquireKey(c.Request.Context(), key, userID, operation, hex.EncodeToString(sum[:]))
		if err != nil {
			if _, ok := apperror.AsAppError(err); !ok {
				err = apperror.NewInternal(err).WithDetail("component", "idempotency")
			}
			_ = c.Error(err)
			c.Abort()
			return
		}
		if replay != nil {
			c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		c.Set(keyIdempotency, key)
		c.Set(keyIdempotencyStore, store)
		c.Next()
	}
}

func idempotencyFromContext(c *gin.Context) (string, IdempotencyStore, bool) {
	key := c.GetString(keyIdempotency)
	if key == "" {
		return "", nil, false
	}
	v, ok := c.Get(keyIdempotencyStore)
	if !ok {
		return "", nil, false
	}
	store, ok := v.(IdempotencyStore)
	return key, store, ok && store != nil
}

// CompleteIdempotency stores a successful response for the current key.
// It is a no-op for requests without one.
func CompleteIdempotency(c *gin.Context, status int, body any) {
	key, store, ok := idempotencyFromContext(c)
	if !ok {
		return
	}
	if err := store.CompleteKey(c.Request.Context(), key, status, "application/json; charset=utf-8", body); err != nil {
		logger.Warn(c.Request.Context(), "failed to complete idempotency key", "key", key, "error", err)
	}
}

func failIdempotencyKey(c *gin.Context, status int, body any) {
	key, store, ok := idempotencyFromContext(c)
	if !ok {
		return
	}
	if err := store.FailKey(c.Request.Context(), key, status, "application/json; charset=utf-8", body); err != nil {
		logger.Warn(c.Request.Context(), "failed to fail idempotency key", "key", key, "error", err)
	}
}
