// Package item provides the Item catalog: stock items with their unit of
// record and per-unit conversion factors.
package item

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
)

// Item is a stockable product. Milk items carry composition in the ledger.
type Item struct {
	entity.Catalog

	// StockUOM is the unit quantities are recorded in (KG for milk).
	StockUOM string `db:"stock_uom" json:"stockUom"`

	// IsMilkType marks items whose movements produce ledger entries.
	IsMilkType bool `db:"is_milk_type" json:"isMilkType"`

	ItemGroup string `db:"item_group" json:"itemGroup,omitempty"`

	// Conversions lists how many stock units one alternative unit equals.
	Conversions []UOMConversion `db:"-" json:"uoms"`
}

// UOMConversion is one row of the item's unit table.
type UOMConversion struct {
	UOM    string          `db:"uom" json:"uom"`
	Factor decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`
}

// NewItem creates an item recorded in stockUOM.
func NewItem(code, name, stockUOM string) *Item {
	return &Item{
		Catalog:  entity.NewCatalog(code, name),
		StockUOM: stockUOM,
	}
}

// AddConversion appends or replaces the factor for uom.
func (i *Item) AddConversion(uom string, factor decimal.Decimal) {
	for idx := range i.Conversions {
		if strings.EqualFold(i.Conversions[idx].UOM, uom) {
			i.Conversions[idx].Factor = factor
			return
		}
	}
	i.Conversions = append(i.Conversions, UOMConversion{UOM: uom, Factor: factor})
}

// ConversionFactor returns the factor recorded for uom, if any.
func (i *Item) ConversionFactor(uom string) (decimal.Decimal, bool) {
	for _, c := range i.Conversions {
		if strings.EqualFold(c.UOM, uom) {
			return c.Factor, true
		}
	}
	return decimal.Zero, false
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}
	seen := make(map[string]bool, len(i.Conversions))
	for n, c := range i.Conversions {
		key := strings.ToUpper(c.UOM)
		if c.UOM == "" {
			return apperror.NewValidation("uom is required").
				WithDetail("field", "uoms").WithDetail("row", n+1)
		}
		if seen[key] {
			return apperror.NewDuplicate("uom conversion", "uom", c.UOM)
		}
		seen[key] = true
		if !c.Factor.IsPositive() {
			return apperror.NewValidation("conversion factor must be positive").
				WithDetail("field", "uoms").WithDetail("row", n+1)
		}
	}
	return nil
}
