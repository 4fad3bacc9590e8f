// Package employee provides the employee side of the Party Registry.
package employee

import (
	"context"
	"strings"
	"time"

	"posledger/internal/core/apperror"
	"posledger/internal/core/entity"
	"posledger/internal/core/validate"
	"posledger/internal/domain/catalogs/party"
)

const (
	nameRule        = "max=150"
	designationRule = "required,max=150"
)

// Employee is a staff member whose attendance is recorded.
type Employee struct {
	entity.Catalog
	party.Contact

	Designation string    `db:"designation" json:"designation"`
	BirthDate   time.Time `db:"birth_date" json:"birthDate"`
	JoinedDate  time.Time `db:"joined_date" json:"joinedDate"`
}

// NewEmployee creates an active employee. Both dates default to today.
func NewEmployee(name, designation string, contact party.Contact) *Employee {
	today := Today(time.Now())
	e := &Employee{
		Catalog:     entity.NewCatalog(name),
		Contact:     contact,
		Designation: strings.TrimSpace(designation),
		BirthDate:   today,
		JoinedDate:  today,
	}
	e.Contact.Normalize()
	return e
}

// Today truncates t to a UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate implements entity.Validatable interface.
func (e *Employee) Validate(ctx context.Context) error {
	if err := e.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := validate.Field("name", e.Name, nameRule); err != nil {
		return err
	}
	if err := validate.Field("designation", e.Designation, designationRule); err != nil {
		return err
	}
	if err := e.Contact.Validate(); err != nil {
		return err
	}
	if e.BirthDate.IsZero() || e.JoinedDate.IsZero() {
		return apperror.NewValidation("dates are required").WithDetail("field", "birthDate")
	}
	return nil
}
