package domain

import (
	"context"
	"strings"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
)

// UniqueChecker reports whether a record other than excludeID already
// holds value in column.
type UniqueChecker interface {
	ExistsBy(ctx context.Context, column, value string, excludeID id.ID) (bool, error)
}

// UniqueField is one column that must be unique across the table.
type UniqueField struct {
	Column string
	Value  string
}

// UniqueFieldsHook returns a before-create/update hook rejecting values
// already used by another record. The database constraint is the final
// guard; the hook produces a field-level Duplicate error first.
func UniqueFieldsHook[T interface{ GetID() id.ID }](
	entityName string,
	checker UniqueChecker,
	fields func(T) []UniqueField,
) Hook[T] {
	return func(ctx context.Context, e T) error {
		for _, f := range fields(e) {
			value := strings.TrimSpace(f.Value)
			if value == "" {
				continue
			}
			exists, err := checker.ExistsBy(ctx, f.Column, value, e.GetID())
			if err != nil {
				return err
			}
			if exists {
				return apperror.NewDuplicate(entityName, f.Column, value)
			}
		}
		return nil
	}
}
