package reports

import (
	"context"
	"time"

	"posledger/internal/domain/documents/bill"
)

// Repository defines dashboard aggregates.
type Repository interface {
	// SaleDetailTotals returns the raw, non-empty "total" texts of all
	// sale bill details.
	SaleDetailTotals(ctx context.Context) ([]string, error)

	// CountBillsSince counts bills of dir created at or after since.
	CountBillsSince(ctx context.Context, dir bill.Direction, since time.Time) (int64, error)
}
