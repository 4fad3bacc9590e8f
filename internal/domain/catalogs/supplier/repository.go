package supplier

import (
	"posledger/internal/domain"
)

// Repository defines data access for suppliers.
type Repository interface {
	domain.CatalogRepository[*Supplier]
	domain.UniqueChecker
}
