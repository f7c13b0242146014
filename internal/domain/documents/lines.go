package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/catalogs/item"
)

// ItemReader resolves items by code.
type ItemReader interface {
	GetByCode(ctx context.Context, code string) (*item.Item, error)
}

// StockQty converts a line quantity into the stock unit. A missing factor counts as 1.
func StockQty(qty, conversionFactor decimal.Decimal) decimal.Decimal {
	if !conversionFactor.IsPositive() {
		return qty
	}
	return qty.Mul(conversionFactor)
}

// ResolveConversion picks the unit and factor of a line against the item.
// An empty or stock unit is factor 1; another unit takes the item's factor
// unless the line already carries one.
func ResolveConversion(it *item.Item, uom string, factor decimal.Decimal) (string, decimal.Decimal) {
	one := decimal.NewFromInt(1)
	if uom == "" || strings.EqualFold(uom, it.StockUOM) {
		return it.StockUOM, one
	}
	if !factor.IsPositive() || factor.Equal(one) {
		if f, ok := it.ConversionFactor(uom); ok {
			factor = f
		}
	}
	if !factor.IsPositive() {
		factor = one
	}
	return uom, factor
}

// LookupItem loads a line's item, turning a missing item into a validation error.
func LookupItem(ctx context.Context, items ItemReader, code string, lineNo int) (*item.Item, error) {
	it, err := items.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidation(fmt.Sprintf("item %s not found", code)).
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo)
		}
		return nil, err
	}
	return it, nil
}
