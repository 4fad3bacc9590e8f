package entity

import (
	"context"
	"strings"

	"posledger/internal/core/apperror"
)

// Catalog is the base type for named registry records
// (stock items, suppliers, employees).
type Catalog struct {
	BaseEntity

	// Name is the display name; the registry looks records up by it
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Name:       strings.TrimSpace(name),
	}
}

// GetName returns the display name.
func (c *Catalog) GetName() string {
	return c.Name
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !c.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(c.Status))
	}
	return nil
}

// RequireField returns a validation error naming field when value is blank.
func RequireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.NewValidation(field+" is required").WithDetail("field", field)
	}
	return nil
}
