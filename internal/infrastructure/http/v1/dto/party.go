package dto

import (
	"strings"
	"time"

	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/domain/catalogs/party"
	"posledger/internal/domain/catalogs/supplier"
)

// ContactRequest is the contact block shared by supplier and employee forms.
type ContactRequest struct {
	Phone   string `json:"phone" binding:"required,max=12,phone"`
	Address string `json:"address" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,max=254,email"`
	NIC     string `json:"nic" binding:"required,max=10,nic"`
	Photo   string `json:"photo" binding:"max=255"`
}

// ToContact converts the block into party.Contact.
func (r ContactRequest) ToContact() party.Contact {
	c := party.Contact{
		Phone:   r.Phone,
		Address: r.Address,
		Email:   r.Email,
		NIC:     r.NIC,
		Photo:   r.Photo,
	}
	c.Normalize()
	return c
}

// ContactResponse is the contact block on the wire.
type ContactResponse struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
	NIC     string `json:"nic"`
	Photo   string `json:"photo,omitempty"`
}

func fromContact(c party.Contact) ContactResponse {
	return ContactResponse{Phone: c.Phone, Address: c.Address, Email: c.Email, NIC: c.NIC, Photo: c.Photo}
}

// --- Suppliers ---

// CreateSupplierRequest is the add-supplier form.
type CreateSupplierRequest struct {
	Name string `json:"name" binding:"required,max=150"`
	ContactRequest
}

// ToEntity creates a new supplier.
func (r CreateSupplierRequest) ToEntity() *supplier.Supplier {
	return supplier.NewSupplier(r.Name, r.ToContact())
}

// UpdateSupplierRequest is the edit-supplier form.
type UpdateSupplierRequest struct {
	Name string `json:"name" binding:"required,max=150"`
	ContactRequest
	Version int `json:"version" binding:"required,min=1"`
}

// Apply copies the form onto existing.
func (r UpdateSupplierRequest) Apply(existing *supplier.Supplier) *supplier.Supplier {
	existing.Name = strings.TrimSpace(r.Name)
	existing.Contact = r.ToContact()
	existing.Version = r.Version
	return existing
}

// SupplierResponse is a supplier on the wire.
type SupplierResponse struct {
	BaseResponse
	ContactResponse
}

// FromSupplier maps a supplier.
func FromSupplier(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{BaseResponse: FromCatalog(s.Catalog), ContactResponse: fromContact(s.Contact)}
}

// SupplierProfileResponse is the supplier page: the record plus its
// purchase bills.
type SupplierProfileResponse struct {
	Supplier  SupplierResponse `json:"supplier"`
	Purchases ListResponse     `json:"purchases"`
}

// --- Employees ---

// CreateEmployeeRequest is the add-employee form. Dates default to today.
type CreateEmployeeRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Designation string `json:"designation" binding:"required,max=150"`
	ContactRequest
	BirthDate  string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	JoinedDate string `json:"joinedDate" binding:"omitempty,datetime=2006-01-02"`
}

// ToEntity creates a new employee.
func (r CreateEmployeeRequest) ToEntity() *employee.Employee {
	e := employee.NewEmployee(r.Name, r.Designation, r.ToContact())
	setDate(&e.BirthDate, r.BirthDate)
	setDate(&e.JoinedDate, r.JoinedDate)
	return e
}

// UpdateEmployeeRequest is the edit-employee form.
type UpdateEmployeeRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Designation string `json:"designation" binding:"required,max=150"`
	ContactRequest
	BirthDate  string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	JoinedDate string `json:"joinedDate" binding:"omitempty,datetime=2006-01-02"`
	Version    int    `json:"version" binding:"required,min=1"`
}

// Apply copies the form onto existing. Omitted dates are kept.
func (r UpdateEmployeeRequest) Apply(existing *employee.Employee) *employee.Employee {
	existing.Name = strings.TrimSpace(r.Name)
	existing.Designation = strings.TrimSpace(r.Designation)
	existing.Contact = r.ToContact()
	setDate(&existing.BirthDate, r.BirthDate)
	setDate(&existing.JoinedDate, r.JoinedDate)
	existing.Version = r.Version
	return existing
}

// setDate overwrites dst when s is a valid date; binding has already
// rejected malformed values.
func setDate(dst *time.Time, s string) {
	if s == "" {
		return
	}
	if t, err := ParseDate(s); err == nil {
		*dst = t
	}
}

// EmployeeResponse is an employee on the wire.
type EmployeeResponse struct {
	BaseResponse
	ContactResponse
	Designation string `json:"designation"`
	BirthDate   string `json:"birthDate"`
	JoinedDate  string `json:"joinedDate"`
}

// FromEmployee maps an employee.
func FromEmployee(e *employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		BaseResponse:    FromCatalog(e.Catalog),
		ContactResponse: fromContact(e.Contact),
		Designation:     e.Designation,
		BirthDate:       formatDate(e.BirthDate),
		JoinedDate:      formatDate(e.JoinedDate),
	}
}
