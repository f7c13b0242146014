package entity

import (
	"context"

	"milkledger/internal/core/apperror"
)

// Catalog is the base type for master data (items, suppliers, milk types).
type Catalog struct {
	BaseEntity

	// Code is the business key other records refer to.
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	Disabled bool `db:"disabled" json:"disabled"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	if name == "" {
		name = code
	}
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// GetCode returns the business key.
func (c *Catalog) GetCode() string {
	return c.Code
}
