package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("supplier", "42")

	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "supplier not found", err.Message)
	assert.Equal(t, "42", err.Details["id"])
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	base := NewValidation("quantity must be positive").WithDetail("field", "quantity")
	wrapped := fmt.Errorf("create bill: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Same(t, base, appErr)
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(wrapped))
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.False(t, IsAppError(errors.New("boom")))
}

func TestNewInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNewInsufficientStock(t *testing.T) {
	err := NewInsufficientStock("abc", 5, 2)

	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
	assert.Equal(t, 5, err.Details["requested"])
	assert.Equal(t, 2, err.Details["available"])
	assert.True(t, HasCode(err, CodeInsufficientStock))
}
