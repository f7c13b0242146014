// Package warehouse provides the Warehouse catalog: stores, milk tanks and
// production floors that hold stock.
package warehouse

import (
	"context"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
)

// WarehouseType defines the type of warehouse.
type WarehouseType string

const (
	TypeStore      WarehouseType = "store"
	TypeTank       WarehouseType = "tank"
	TypeProduction WarehouseType = "production"
	TypeTransit    WarehouseType = "transit"
)

// Warehouse represents a storage location.
type Warehouse struct {
	entity.Catalog

	Type WarehouseType `db:"type" json:"type"`

	// Capacity is the tank capacity in the stock unit; zero means unlimited.
	Capacity float64 `db:"capacity" json:"capacity,omitempty"`

	Address string `db:"address" json:"address,omitempty"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string, whType WarehouseType) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
		Type:    whType,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if w.Type != "" && !isValidWarehouseType(w.Type) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "type").
			WithDetail("value", string(w.Type))
	}
	if w.Capacity < 0 {
		return apperror.NewValidation("capacity cannot be negative").
			WithDetail("field", "capacity")
	}

	return nil
}

func isValidWarehouseType(t WarehouseType) bool {
	switch t {
	case TypeStore, TypeTank, TypeProduction, TypeTransit:
		return true
	}
	return false
}
