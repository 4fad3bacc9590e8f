package entity

import (
	"context"
	"time"

	"posledger/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Status is the lifecycle state of a registry record.
// Records are never physically removed; they move to StatusDeleted.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDeleted:
		return true
	}
	return false
}

// IsActive reports whether s is StatusActive.
func (s Status) IsActive() bool {
	return s == StatusActive
}

// BaseEntity contains common fields for registry entities.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	Status Status `db:"status" json:"status"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a new active BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		Status:    StatusActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the primary key.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// IsDeleted reports whether the record was soft-deleted.
func (b *BaseEntity) IsDeleted() bool {
	return b.Status == StatusDeleted
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// MarkDeleted moves the record to StatusDeleted.
func (b *BaseEntity) MarkDeleted() {
	b.Status = StatusDeleted
}

// GetVersion returns the optimistic lock version.
func (b *BaseEntity) GetVersion() int {
	return b.Version
}

// SetStatus moves the record to status.
func (b *BaseEntity) SetStatus(status Status) {
	b.Status = status
}

// SetVersion updates the version number (used by repository after sync).
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}
