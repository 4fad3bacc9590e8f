// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"posledger/internal/core/entity"
	"posledger/internal/core/id"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches the searchable columns of the entity (name, number, nic...)
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// OrderBy specifies sorting (e.g., "name", "-quantity")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   DefaultPageSize,
		OrderBy: "name",
	}
}

// Normalize clamps pagination to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// CatalogRepository defines CRUD operations for registry entities.
type CatalogRepository[T entity.Validatable] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID regardless of status
	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetByName retrieves entity by its unique display name
	GetByName(ctx context.Context, name string) (T, error)

	// Update modifies existing entity (with optimistic locking)
	Update(ctx context.Context, entity T) error

	// SetStatus moves the entity between active and deleted.
	// Rows are never physically removed.
	SetStatus(ctx context.Context, id id.ID, status entity.Status) error

	// List retrieves entities with filtering and pagination.
	// Deleted rows are excluded unless filter.IncludeDeleted is set.
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}

// OnAfterDelete registers a hook to run after delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) {
	r.On(AfterDelete, hook)
}
