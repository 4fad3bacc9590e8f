package bill

import (
	"context"
	"time"

	"posledger/internal/core/id"
	"posledger/internal/domain"
)

// Repository defines storage for bill aggregates. Every method maps
// direction to its own table set.
type Repository interface {
	// Header operations
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, dir Direction, billID id.ID) (*Bill, error)
	GetForUpdate(ctx context.Context, dir Direction, billID id.ID) (*Bill, error)
	DeleteHeader(ctx context.Context, dir Direction, billID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error)

	// Details operations
	CreateDetails(ctx context.Context, dir Direction, billID id.ID) error
	GetDetails(ctx context.Context, dir Direction, billID id.ID) (*Details, error)
	SaveDetails(ctx context.Context, dir Direction, d *Details) error
	DeleteDetails(ctx context.Context, dir Direction, billID id.ID) error

	// Line operations
	AddLine(ctx context.Context, dir Direction, line Line) error
	GetLines(ctx context.Context, dir Direction, billID id.ID) ([]Line, error)
	DeleteLines(ctx context.Context, dir Direction, billID id.ID) error
}

// ListFilter for filtering bills.
type ListFilter struct {
	domain.ListFilter

	Direction  Direction
	SupplierID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}
