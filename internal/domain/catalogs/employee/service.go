package employee

import (
	"context"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/core/tx"
	"posledger/internal/domain"
)

const entityName = "employee"

// Service provides employee registry operations.
type Service struct {
	*domain.CatalogService[*Employee]
	repo Repository
}

// NewService creates a new employee service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Employee]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: entityName,
	})

	unique := domain.UniqueFieldsHook(entityName, repo, func(e *Employee) []domain.UniqueField {
		return []domain.UniqueField{
			{Column: "phone", Value: e.Phone},
			{Column: "email", Value: e.Email},
			{Column: "nic", Value: e.NIC},
		}
	})
	base.Hooks().OnBeforeCreate(unique)
	base.Hooks().OnBeforeUpdate(unique)

	return &Service{CatalogService: base, repo: repo}
}

// ResolveActive returns an employee that may receive attendance marks.
func (s *Service) ResolveActive(ctx context.Context, employeeID id.ID) (*Employee, error) {
	e, err := s.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e.IsDeleted() {
		return nil, apperror.NewValidation("employee is deleted").
			WithDetail("field", "employeeId").
			WithDetail("id", employeeID.String())
	}
	return e, nil
}

// ListActive returns all active employees.
func (s *Service) ListActive(ctx context.Context) ([]*Employee, error) {
	return s.repo.ListActive(ctx)
}
