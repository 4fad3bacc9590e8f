package dto

import (
	"time"

	"posledger/internal/core/id"
	"posledger/internal/core/types"
	"posledger/internal/domain/documents/bill"
)

// LineRequest is one bill line. Price and quantity limits are enforced by
// the engine so the error can name the line.
type LineRequest struct {
	StockID  string      `json:"stockId" binding:"required,uuid"`
	Quantity int         `json:"quantity"`
	PerPrice types.Money `json:"perPrice"`
}

func toLineInputs(lines []LineRequest) []bill.LineInput {
	out := make([]bill.LineInput, len(lines))
	for i, l := range lines {
		// binding has already checked the uuid
		stockID, _ := id.Parse(l.StockID)
		out[i] = bill.LineInput{StockID: stockID, Quantity: l.Quantity, PerPrice: l.PerPrice}
	}
	return out
}

// CreatePurchaseRequest is the new purchase bill form.
type CreatePurchaseRequest struct {
	SupplierID string        `json:"supplierId" binding:"required,uuid"`
	Lines      []LineRequest `json:"lines" binding:"dive"`
}

// ToInput converts the request into an engine input.
func (r CreatePurchaseRequest) ToInput() bill.CreateInput {
	supplierID, _ := id.Parse(r.SupplierID)
	return bill.CreateInput{
		Direction:  bill.DirectionPurchase,
		SupplierID: supplierID,
		Lines:      toLineInputs(r.Lines),
	}
}

// CustomerRequest is the inline buyer block of a sale bill.
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	Phone   string `json:"phone" binding:"required,max=12"`
	Address string `json:"address" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,max=254,email"`
	NIC     string `json:"nic" binding:"required,max=15"`
}

// CreateSaleRequest is the new sale bill form.
type CreateSaleRequest struct {
	Customer CustomerRequest `json:"customer"`
	Lines    []LineRequest   `json:"lines" binding:"dive"`
}

// ToInput converts the request into an engine input.
func (r CreateSaleRequest) ToInput() bill.CreateInput {
	return bill.CreateInput{
		Direction: bill.DirectionSale,
		Customer: &bill.Customer{
			Name:    r.Customer.Name,
			Phone:   r.Customer.Phone,
			Address: r.Customer.Address,
			Email:   r.Customer.Email,
			NIC:     r.Customer.NIC,
		},
		Lines: toLineInputs(r.Lines),
	}
}

// DetailsRequest replaces the logistics block. Omitted fields are cleared.
type DetailsRequest struct {
	Eway        *string `json:"eway" binding:"omitempty,max=50"`
	Veh         *string `json:"veh" binding:"omitempty,max=50"`
	Destination *string `json:"destination" binding:"omitempty,max=50"`
	PO          *string `json:"po" binding:"omitempty,max=50"`
	Bank        *string `json:"bank" binding:"omitempty,max=50"`
	AccountNo   *string `json:"acno" binding:"omitempty,max=50"`
	Address     *string `json:"address" binding:"omitempty,max=50"`
	Total       *string `json:"total" binding:"omitempty,max=50"`
}

// ToInput converts the request into an engine input.
func (r DetailsRequest) ToInput() bill.DetailsInput {
	return bill.DetailsInput{
		Eway:        r.Eway,
		Veh:         r.Veh,
		Destination: r.Destination,
		PO:          r.PO,
		Bank:        r.Bank,
		AccountNo:   r.AccountNo,
		Address:     r.Address,
		Total:       r.Total,
	}
}

// BillListQuery holds bill list parameters.
type BillListQuery struct {
	ListQuery
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
	DateFrom   string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter converts the query for dir. DateTo is inclusive.
func (q BillListQuery) ToFilter(dir bill.Direction) bill.ListFilter {
	f := bill.ListFilter{ListFilter: q.ListQuery.ToFilter(), Direction: dir}
	if q.SupplierID != "" {
		if sid, err := id.Parse(q.SupplierID); err == nil {
			f.SupplierID = &sid
		}
	}
	if t, err := ParseDate(q.DateFrom); err == nil {
		f.DateFrom = &t
	}
	if t, err := ParseDate(q.DateTo); err == nil {
		end := t.AddDate(0, 0, 1)
		f.DateTo = &end
	}
	return f
}

// LineResponse is a bill line on the wire.
type LineResponse struct {
	LineNo     int         `json:"lineNo"`
	StockID    string      `json:"stockId"`
	Quantity   int         `json:"quantity"`
	PerPrice   types.Money `json:"perPrice"`
	TotalPrice types.Money `json:"totalPrice"`
}

// DetailsResponse is the logistics block on the wire.
type DetailsResponse struct {
	Eway        *string `json:"eway"`
	Veh         *string `json:"veh"`
	Destination *string `json:"destination"`
	PO          *string `json:"po"`
	Bank        *string `json:"bank,omitempty"`
	AccountNo   *string `json:"acno,omitempty"`
	Address     *string `json:"address"`
	Total       *string `json:"total"`
}

// FromDetails maps a details row.
func FromDetails(d *bill.Details) *DetailsResponse {
	if d == nil {
		return nil
	}
	return &DetailsResponse{
		Eway:        d.Eway,
		Veh:         d.Veh,
		Destination: d.Destination,
		PO:          d.PO,
		Bank:        d.Bank,
		AccountNo:   d.AccountNo,
		Address:     d.Address,
		Total:       d.Total,
	}
}

// BillResponse is a bill aggregate on the wire.
type BillResponse struct {
	ID         string           `json:"id"`
	Direction  bill.Direction   `json:"direction"`
	Number     string           `json:"number"`
	Time       time.Time        `json:"time"`
	CreatedBy  string           `json:"createdBy,omitempty"`
	SupplierID string           `json:"supplierId,omitempty"`
	Customer   *CustomerRequest `json:"customer,omitempty"`
	Details    *DetailsResponse `json:"details,omitempty"`
	Lines      []LineResponse   `json:"lines"`
	Total      types.Money      `json:"total"`
}

// FromBill maps a bill. List results carry headers only.
func FromBill(b *bill.Bill) BillResponse {
	resp := BillResponse{
		ID:        b.ID.String(),
		Direction: b.Direction,
		Number:    b.Number,
		Time:      b.Time,
		CreatedBy: b.CreatedBy,
		Details:   FromDetails(b.Details),
		Lines:     make([]LineResponse, len(b.Lines)),
		Total:     b.Total,
	}
	if b.SupplierID != nil {
		resp.SupplierID = b.SupplierID.String()
	}
	if c := b.Customer; c != nil {
		resp.Customer = &CustomerRequest{Name: c.Name, Phone: c.Phone, Address: c.Address, Email: c.Email, NIC: c.NIC}
	}
	for i, l := range b.Lines {
		resp.Lines[i] = LineResponse{
			LineNo:     l.LineNo,
			StockID:    l.StockID.String(),
			Quantity:   l.Quantity,
			PerPrice:   l.PerPrice,
			TotalPrice: l.TotalPrice,
		}
	}
	return resp
}
