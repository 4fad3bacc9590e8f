package employee

import (
	"context"

	"posledger/internal/domain"
)

// Repository defines data access for employees.
type Repository interface {
	domain.CatalogRepository[*Employee]
	domain.UniqueChecker

	// ListActive returns every active employee ordered by name.
	ListActive(ctx context.Context) ([]*Employee, error)
}
