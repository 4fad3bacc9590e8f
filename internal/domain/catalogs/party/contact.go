// Package party holds the contact block shared by suppliers and employees.
package party

import (
	"strings"

	"posledger/internal/core/validate"
)

// Contact is the person/company contact data of a registry party.
// Phone, email and nic are unique per registry.
type Contact struct {
	Phone   string `db:"phone" json:"phone" validate:"required,max=12,phone"`
	Address string `db:"address" json:"address" validate:"required,max=200"`
	Email   string `db:"email" json:"email" validate:"required,max=254,email"`
	NIC     string `db:"nic" json:"nic" validate:"required,max=10,nic"`

	// Photo is an opaque path or URL; upload storage lives elsewhere.
	Photo string `db:"photo" json:"photo,omitempty" validate:"max=255"`
}

// Normalize trims surrounding whitespace and lowercases the email.
func (c *Contact) Normalize() {
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.NIC = strings.TrimSpace(c.NIC)
	c.Photo = strings.TrimSpace(c.Photo)
}

// Validate checks field presence and format.
func (c *Contact) Validate() error {
	return validate.Struct(c)
}
