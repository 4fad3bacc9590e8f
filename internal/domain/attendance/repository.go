package attendance

import (
	"context"
	"time"

	"posledger/internal/core/id"
	"posledger/internal/domain"
)

// Repository defines storage for attendance marks.
type Repository interface {
	Create(ctx context.Context, r *Record) error

	// ListByDate returns the marks of one calendar day, oldest first.
	ListByDate(ctx context.Context, date time.Time) ([]*Record, error)

	// ListByEmployee returns an employee's marks, newest first.
	ListByEmployee(ctx context.Context, employeeID id.ID, page domain.ListFilter) (domain.ListResult[*Record], error)
}
