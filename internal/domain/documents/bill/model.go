// Package bill provides the Bill Engine: purchase and sale bill aggregates
// (header, details, lines) and their effect on the stock ledger.
package bill

import (
	"strings"
	"time"

	"posledger/internal/core/id"
	"posledger/internal/core/types"
)

// Direction tells purchase bills from sale bills.
type Direction string

const (
	DirectionPurchase Direction = "purchase"
	DirectionSale     Direction = "sale"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionPurchase || d == DirectionSale
}

// NumberPrefix returns the bill number prefix for d.
func (d Direction) NumberPrefix() string {
	if d == DirectionSale {
		return "SB"
	}
	return "PB"
}

// StockDelta returns the quantity change a line of qty causes on create.
// Purchases add stock, sales remove it.
func (d Direction) StockDelta(qty int) int {
	if d == DirectionSale {
		return -qty
	}
	return qty
}

// Customer is the inline buyer data of a sale bill. It is not a registry
// reference and is never checked against one.
type Customer struct {
	Name    string `json:"name" validate:"required,max=150"`
	Phone   string `json:"phone" validate:"required,max=12"`
	Address string `json:"address" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,max=254,email"`
	NIC     string `json:"nic" validate:"required,max=15"`
}

func (c *Customer) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Email = strings.TrimSpace(c.Email)
	c.NIC = strings.TrimSpace(c.NIC)
}

// Bill is the aggregate root. Details and Lines are loaded by the engine;
// Total is the sum of line totals and is filled in by Engine.Get.
type Bill struct {
	ID        id.ID     `json:"id"`
	Direction Direction `json:"direction"`
	Number    string    `json:"number"`
	Time      time.Time `json:"time"`
	CreatedBy string    `json:"createdBy,omitempty"`

	// SupplierID is set for purchase bills only.
	SupplierID *id.ID `json:"supplierId,omitempty"`

	// Customer is set for sale bills only.
	Customer *Customer `json:"customer,omitempty"`

	Details *Details    `json:"details,omitempty"`
	Lines   []Line      `json:"lines,omitempty"`
	Total   types.Money `json:"total"`
}

// Line is one stock movement of a bill. TotalPrice is fixed at creation.
type Line struct {
	ID         id.ID       `db:"id" json:"id"`
	BillID     id.ID       `db:"bill_id" json:"billId"`
	LineNo     int         `db:"line_no" json:"lineNo"`
	StockID    id.ID       `db:"stock_id" json:"stockId"`
	Quantity   int         `db:"quantity" json:"quantity"`
	PerPrice   types.Money `db:"per_price" json:"perPrice"`
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`
}

// Details holds the free-text logistics fields of a bill. Bank and
// AccountNo exist on purchase bills only.
type Details struct {
	BillID      id.ID   `db:"bill_id" json:"billId"`
	Eway        *string `db:"eway" json:"eway"`
	Veh         *string `db:"veh" json:"veh"`
	Destination *string `db:"destination" json:"destination"`
	PO          *string `db:"po" json:"po"`
	Bank        *string `db:"bank" json:"bank,omitempty"`
	AccountNo   *string `db:"acno" json:"acno,omitempty"`
	Address     *string `db:"addr" json:"address"`
	Total       *string `db:"total" json:"total"`
}

// LineInput is one requested line of a new bill.
type LineInput struct {
	StockID  id.ID
	Quantity int
	PerPrice types.Money
}

// CreateInput is the request to create a bill aggregate.
type CreateInput struct {
	Direction  Direction
	SupplierID id.ID
	Customer   *Customer
	Lines      []LineInput
}

// DetailsInput replaces every logistics field. Nil clears a field.
type DetailsInput struct {
	Eway        *string `json:"eway" validate:"omitempty,max=50"`
	Veh         *string `json:"veh" validate:"omitempty,max=50"`
	Destination *string `json:"destination" validate:"omitempty,max=50"`
	PO          *string `json:"po" validate:"omitempty,max=50"`
	Bank        *string `json:"bank" validate:"omitempty,max=50"`
	AccountNo   *string `json:"acno" validate:"omitempty,max=50"`
	Address     *string `json:"address" validate:"omitempty,max=50"`
	Total       *string `json:"total" validate:"omitempty,max=50"`
}

// GrandTotal sums the line totals.
func GrandTotal(lines []Line) types.Money {
	total := types.Zero()
	for _, l := range lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}
