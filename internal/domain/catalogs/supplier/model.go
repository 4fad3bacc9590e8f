// Package supplier provides the supplier side of the Party Registry.
package supplier

import (
	"context"

	"posledger/internal/core/entity"
	"posledger/internal/core/validate"
	"posledger/internal/domain/catalogs/party"
)

const nameRule = "max=150"

// Supplier is a vendor referenced by purchase bills.
type Supplier struct {
	entity.Catalog
	party.Contact
}

// NewSupplier creates an active supplier.
func NewSupplier(name string, contact party.Contact) *Supplier {
	s := &Supplier{
		Catalog: entity.NewCatalog(name),
		Contact: contact,
	}
	s.Contact.Normalize()
	return s
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := validate.Field("name", s.Name, nameRule); err != nil {
		return err
	}
	return s.Contact.Validate()
}
