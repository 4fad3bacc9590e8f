package supplier

import (
	"context"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/core/tx"
	"posledger/internal/domain"
)

const entityName = "supplier"

// Service provides supplier registry operations.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: entityName,
	})

	unique := domain.UniqueFieldsHook(entityName, repo, func(s *Supplier) []domain.UniqueField {
		return []domain.UniqueField{
			{Column: "phone", Value: s.Phone},
			{Column: "email", Value: s.Email},
			{Column: "nic", Value: s.NIC},
		}
	})
	base.Hooks().OnBeforeCreate(unique)
	base.Hooks().OnBeforeUpdate(unique)

	return &Service{CatalogService: base}
}

// ResolveActive returns the supplier for a new purchase bill.
// A missing supplier is NotFound; a deleted one is a validation error.
func (s *Service) ResolveActive(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	sup, err := s.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if sup.IsDeleted() {
		return nil, apperror.NewValidation("supplier is deleted").
			WithDetail("field", "supplierId").
			WithDetail("id", supplierID.String())
	}
	return sup, nil
}
