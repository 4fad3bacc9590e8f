// Package stockitem provides the Stock Ledger: inventory items and their
// on-hand quantity.
package stockitem

import (
	"context"
	"unicode/utf8"

	"posledger/internal/core/apperror"
	"posledger/internal/core/entity"
)

const (
	maxNameLen         = 30
	maxModelLen        = 30
	maxManufacturerLen = 30

	// DefaultQuantity is the on-hand quantity of a newly registered item.
	DefaultQuantity = 1
)

// StockItem is one inventory item. Quantity changes through bills or the
// edit form; it is never clamped at zero here.
type StockItem struct {
	entity.Catalog

	Model        string `db:"model" json:"model"`
	Manufacturer string `db:"manufacturer" json:"manufacturer"`
	Description  string `db:"description" json:"description"`
	Quantity     int    `db:"quantity" json:"quantity"`
}

// NewStockItem creates an active item with the default quantity.
func NewStockItem(name, model, manufacturer string) *StockItem {
	return &StockItem{
		Catalog:      entity.NewCatalog(name),
		Model:        model,
		Manufacturer: manufacturer,
		Quantity:     DefaultQuantity,
	}
}

// Validate implements entity.Validatable interface.
func (s *StockItem) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}
	if err := entity.RequireField("model", s.Model); err != nil {
		return err
	}
	if err := entity.RequireField("manufacturer", s.Manufacturer); err != nil {
		return err
	}

	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"name", s.Name, maxNameLen},
		{"model", s.Model, maxModelLen},
		{"manufacturer", s.Manufacturer, maxManufacturerLen},
	} {
		if utf8.RuneCountInString(f.value) > f.max {
			return apperror.NewValidation(f.name+" is too long").
				WithDetail("field", f.name).
				WithDetail("max", f.max)
		}
	}
	return nil
}
