package dto

import (
	"strings"

	"posledger/internal/domain/catalogs/stockitem"
)

// CreateStockItemRequest is the add-stock form.
type CreateStockItemRequest struct {
	Name         string `json:"name" binding:"required,max=30"`
	Model        string `json:"model" binding:"required,max=30"`
	Manufacturer string `json:"manufacturer" binding:"required,max=30"`
	Description  string `json:"description"`

	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity" binding:"omitempty,min=0"`
}

// ToEntity creates a new stock item.
func (r CreateStockItemRequest) ToEntity() *stockitem.StockItem {
	item := stockitem.NewStockItem(r.Name, strings.TrimSpace(r.Model), strings.TrimSpace(r.Manufacturer))
	item.Description = strings.TrimSpace(r.Description)
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}
	return item
}

// UpdateStockItemRequest is the edit-stock form. Quantity is written as
// given, without a bill.
type UpdateStockItemRequest struct {
	Name         string `json:"name" binding:"required,max=30"`
	Model        string `json:"model" binding:"required,max=30"`
	Manufacturer string `json:"manufacturer" binding:"required,max=30"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity"`
	Version      int    `json:"version" binding:"required,min=1"`
}

// Apply copies the form onto existing.
func (r UpdateStockItemRequest) Apply(existing *stockitem.StockItem) *stockitem.StockItem {
	existing.Name = strings.TrimSpace(r.Name)
	existing.Model = strings.TrimSpace(r.Model)
	existing.Manufacturer = strings.TrimSpace(r.Manufacturer)
	existing.Description = strings.TrimSpace(r.Description)
	existing.Quantity = r.Quantity
	existing.Version = r.Version
	return existing
}

// StockItemResponse is a stock item on the wire.
type StockItemResponse struct {
	BaseResponse
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity"`
}

// FromStockItem maps a stock item.
func FromStockItem(s *stockitem.StockItem) StockItemResponse {
	return StockItemResponse{
		BaseResponse: FromCatalog(s.Catalog),
		Model:        s.Model,
		Manufacturer: s.Manufacturer,
		Description:  s.Description,
		Quantity:     s.Quantity,
	}
}
