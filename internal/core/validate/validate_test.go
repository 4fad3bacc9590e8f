package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posledger/internal/core/apperror"
)

type contact struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone"`
	Email string `json:"email" validate:"required,email"`
	NIC   string `json:"nic" validate:"required,nic"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(contact{Name: "Ravi", Phone: "0771234567", Email: "ravi@example.com", NIC: "912345678V"})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(contact{Name: "Ravi", Phone: "call me", Email: "ravi@example.com", NIC: "912345678V"})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "phone", appErr.Details["field"])
	assert.Equal(t, "phone", appErr.Details["rule"])
}

func TestStruct_CollectsAllFields(t *testing.T) {
	err := Struct(contact{})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)

	fields := appErr.Details["fields"].(map[string]string)
	assert.Len(t, fields, 4)
	assert.Equal(t, "required", fields["email"])
}

func TestToAppError_PlainError(t *testing.T) {
	err := ToAppError(errors.New("bad input"))
	assert.True(t, apperror.IsValidation(err))
	assert.NoError(t, ToAppError(nil))
}

func TestField(t *testing.T) {
	assert.NoError(t, Field("name", "Acme", "required,max=10"))

	err := Field("name", "A very long supplier name", "required,max=10")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "name", appErr.Details["field"])
	assert.Equal(t, "max", appErr.Details["rule"])
}
