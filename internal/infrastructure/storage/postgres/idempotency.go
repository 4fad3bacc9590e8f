package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"posledger/internal/core/apperror"
)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusSuccess IdempotencyStatus = "success"
	IdempotencyStatusFailed  IdempotencyStatus = "failed"
)

// stalePending is how long a pending key may stay unfinished before a
// retry is allowed to take it over.
const stalePending = time.Minute

// IdempotencyRecord stores the result of an idempotent operation.
type IdempotencyRecord struct {
	Key         string            `db:"idempotency_key"`
	UserID      string            `db:"user_id"`
	Operation   string            `db:"operation"`
	Status      IdempotencyStatus `db:"status"`
	RequestHash string            `db:"request_hash"`
	Response    []byte            `db:"response"`
	StatusCode  int               `db:"response_status"`
	ContentType string            `db:"response_content_type"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	ExpiresAt   time.Time         `db:"expires_at"`
}

// IdempotencyReplay is the cached HTTP response for replay.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyStore keeps X-Idempotency-Key results of bill creation so a
// retried POST does not create a second bill.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
	now       func() time.Time
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{txManager: txManager, ttl: ttl, now: time.Now}
}

// AcquireKey claims key for the request. It returns
//   - (nil, nil) when the caller owns the key and should run the request
//   - (replay, nil) when the request already finished
//   - (nil, err) when the key belongs to another request or is in flight
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error) {
	q := s.txManager.GetQuerier(ctx)
	now := s.now().UTC()

	tag, err := q.Exec(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, user_id, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING
	`, key, userID, operation, IdempotencyStatusPending, requestHash, now, now.Add(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil, nil
	}

	var rec IdempotencyRecord
	err = q.QueryRow(ctx, `
		SELECT user_id, operation, status, request_hash, response, response_status, response_content_type, updated_at
		FROM sys_idempotency
		WHERE idempotency_key = $1
	`, key).Scan(&rec.UserID, &rec.Operation, &rec.Status, &rec.RequestHash,
		&rec.Response, &rec.StatusCode, &rec.ContentType, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// removed by cleanup between the two statements
		return s.AcquireKey(ctx, key, userID, operation, requestHash)
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}

	if rec.UserID != userID || rec.Operation != operation || rec.RequestHash != requestHash {
		return nil, apperror.NewConflict("idempotency key was used for a different request").
			WithDetail("idempotency_key", key)
	}

	switch rec.Status {
	case IdempotencyStatusSuccess, IdempotencyStatusFailed:
		return &IdempotencyReplay{
			StatusCode:  replayStatus(rec.StatusCode),
			ContentType: replayContentType(rec.ContentType),
			Body:        rec.Response,
		}, nil
	}

	if now.Sub(rec.UpdatedAt) <= stalePending {
		return nil, apperror.NewConflict("request with this idempotency key is in progress").
			WithDetail("idempotency_key", key)
	}

	tag, err = q.Exec(ctx, `
		UPDATE sys_idempotency SET updated_at = $1
		WHERE idempotency_key = $2 AND status = $3 AND updated_at = $4
	`, now, key, IdempotencyStatusPending, rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("reclaim stale key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewConflict("request with this idempotency key is in progress").
			WithDetail("idempotency_key", key)
	}
	return nil, nil
}

// CompleteKey stores the successful response for key.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	return s.finish(ctx, key, IdempotencyStatusSuccess, statusCode, contentType, body)
}

// FailKey stores the error response for key.
func (s *IdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return s.finish(ctx, key, IdempotencyStatusFailed, statusCode, contentType, body)
}

func (s *IdempotencyStore) finish(ctx context.Context, key string, status IdempotencyStatus, statusCode int, contentType string, body []byte) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, status, body, statusCode, contentType, s.now().UTC(), key)
	if err != nil {
		return fmt.Errorf("finish idempotency key: %w", err)
	}
	return nil
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE expires_at < $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup idempotency keys: %w", err)
	}
	return tag.RowsAffected(), nil
}

func replayStatus(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func replayContentType(ct string) string {
	if ct == "" {
		return "application/json"
	}
	return ct
}
