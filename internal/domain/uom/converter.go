// Package uom converts milk quantities between the item's mass unit of record
// and the volume unit used for reporting.
package uom

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/catalogs/item"
)

// ItemReader resolves items by code.
type ItemReader interface {
	GetByCode(ctx context.Context, code string) (*item.Item, error)
}

// Factor is the resolved conversion for one item.
// Value is how many stock units one volume unit equals.
type Factor struct {
	ItemCode  string
	ItemName  string
	StockUOM  string
	VolumeUOM string
	Value     decimal.Decimal
}

// Identity reports whether the item is already recorded in the volume unit.
func (f Factor) Identity() bool {
	return strings.EqualFold(f.StockUOM, f.VolumeUOM)
}

// MassToVolume converts a quantity in the stock unit to the volume unit.
func (f Factor) MassToVolume(mass decimal.Decimal) decimal.Decimal {
	if f.Identity() {
		return mass
	}
	return MassToVolume(mass, f.Value)
}

// VolumeToMass converts a quantity in the volume unit to the stock unit.
func (f Factor) VolumeToMass(volume decimal.Decimal) decimal.Decimal {
	if f.Identity() {
		return volume
	}
	return VolumeToMass(volume, f.Value)
}

// MassToVolume divides by factor; a non-positive factor counts as 1.
func MassToVolume(mass, factor decimal.Decimal) decimal.Decimal {
	if !factor.IsPositive() {
		return mass
	}
	return mass.DivRound(factor, 16)
}

// VolumeToMass multiplies by factor; a non-positive factor counts as 1.
func VolumeToMass(volume, factor decimal.Decimal) decimal.Decimal {
	if !factor.IsPositive() {
		return volume
	}
	return volume.Mul(factor)
}

// Converter looks up item conversion factors.
type Converter struct {
	items     ItemReader
	massUOM   string
	volumeUOM string
}

// NewConverter creates a converter. massUOM is assumed for items that are not
// in the catalog; volumeUOM is the reporting unit.
func NewConverter(items ItemReader, massUOM, volumeUOM string) *Converter {
	return &Converter{items: items, massUOM: massUOM, volumeUOM: volumeUOM}
}

// VolumeUOM returns the reporting unit.
func (c *Converter) VolumeUOM() string { return c.volumeUOM }

// MassUOM returns the default unit of record.
func (c *Converter) MassUOM() string { return c.massUOM }

// Resolve returns the factor for itemCode. Unknown items and items without a
// volume row degrade to a factor of 1 instead of failing.
func (c *Converter) Resolve(ctx context.Context, itemCode string) (Factor, error) {
	f := Factor{
		ItemCode:  itemCode,
		StockUOM:  c.massUOM,
		VolumeUOM: c.volumeUOM,
		Value:     decimal.NewFromInt(1),
	}

	it, err := c.items.GetByCode(ctx, itemCode)
	if apperror.IsNotFound(err) {
		return f, nil
	}
	if err != nil {
		return f, err
	}

	f.ItemName = it.Name
	if it.StockUOM != "" {
		f.StockUOM = it.StockUOM
	}
	if v, ok := it.ConversionFactor(c.volumeUOM); ok && v.IsPositive() {
		f.Value = v
	}
	return f, nil
}
