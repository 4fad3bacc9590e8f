// Package numerator provides the domain contract for bill numbering.
// The implementation lives in pkg/numerator.
package numerator

import (
	"context"
	"time"
)

// Generator issues sequential human-readable numbers (PREFIX-YEAR-XXXXX).
// Implementations must join the caller's transaction so a rolled back
// bill does not consume a number.
type Generator interface {
	Next(ctx context.Context, prefix string, at time.Time) (string, error)
}
