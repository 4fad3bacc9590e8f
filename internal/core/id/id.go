// Package id provides UUIDv7 generation for all entities.
// UUIDv7 is time-ordered, so bill and line ids sort by creation time.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
