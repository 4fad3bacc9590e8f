package employee_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posledger/internal/core/apperror"
	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/domain/catalogs/party"
	"posledger/internal/testing/memstore"
)

func newEmployee(name, phone, email, nic string) *employee.Employee {
	return employee.NewEmployee(name, "Cashier", party.Contact{
		Phone: phone, Address: "2 Lake Road", Email: email, NIC: nic,
	})
}

func TestNewEmployee_DatesDefaultToToday(t *testing.T) {
	e := newEmployee("Kamal", "0771111111", "k@x.lk", "901234567V")
	today := employee.Today(time.Now())
	assert.Equal(t, today, e.BirthDate)
	assert.Equal(t, today, e.JoinedDate)
	assert.NoError(t, e.Validate(context.Background()))
}

func TestEmployee_ValidateDesignation(t *testing.T) {
	e := newEmployee("Kamal", "0771111111", "k@x.lk", "901234567V")
	e.Designation = ""
	appErr, ok := apperror.AsAppError(e.Validate(context.Background()))
	require.True(t, ok)
	assert.Equal(t, "designation", appErr.Details["field"])
}

func TestService_ListActiveAndResolve(t *testing.T) {
	store := memstore.New()
	svc := employee.NewService(store.Employees(), store.TxManager())
	ctx := context.Background()

	a := newEmployee("Amal", "0771111111", "a@x.lk", "901234567V")
	b := newEmployee("Bimal", "0772222222", "b@x.lk", "911234567V")
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	dup := newEmployee("Chamal", "0771111111", "c@x.lk", "921234567V")
	assert.True(t, apperror.HasCode(svc.Create(ctx, dup), apperror.CodeDuplicate))

	require.NoError(t, svc.Delete(ctx, b.ID))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Amal", active[0].Name)

	_, err = svc.ResolveActive(ctx, b.ID)
	assert.True(t, apperror.IsValidation(err))
}
