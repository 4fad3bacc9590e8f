package stockitem

import (
	"context"

	"posledger/internal/core/id"
	"posledger/internal/domain"
)

// Repository defines data access for stock items.
type Repository interface {
	domain.CatalogRepository[*StockItem]
	domain.UniqueChecker

	// GetForUpdate loads the item and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id id.ID) (*StockItem, error)

	// AdjustQuantity atomically adds delta (may be negative) and returns
	// the resulting quantity.
	AdjustQuantity(ctx context.Context, id id.ID, delta int) (int, error)

	// ListActiveByQuantity returns active items ordered by quantity desc.
	ListActiveByQuantity(ctx context.Context) ([]*StockItem, error)
}
