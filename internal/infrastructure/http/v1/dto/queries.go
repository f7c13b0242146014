package dto

import (
	"github.com/shopspring/decimal"

	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/registers/stock"
)

// --- Composition ---

// CompositionResponse is resolved composition of a quantity of milk.
type CompositionResponse struct {
	FatPercent decimal.Decimal `json:"fatPercent"`
	SNFPercent decimal.Decimal `json:"snfPercent"`
	FatMass    decimal.Decimal `json:"fatMass"`
	SNFMass    decimal.Decimal `json:"snfMass"`
}

// FromValues creates CompositionResponse from resolved values.
func FromValues(v composition.Values) CompositionResponse {
	return CompositionResponse{
		FatPercent: v.FatPercent,
		SNFPercent: v.SNFPercent,
		FatMass:    v.FatMass,
		SNFMass:    v.SNFMass,
	}
}

// BlendComponentRequest is one ingredient of a blend.
type BlendComponentRequest struct {
	Qty        decimal.Decimal `json:"qty"`
	FatPercent decimal.Decimal `json:"fatPercent"`
	SNFPercent decimal.Decimal `json:"snfPercent"`
}

// BlendRequest is the request body for a blend preview.
type BlendRequest struct {
	Components []BlendComponentRequest `json:"components"`
}

// ToComponents converts the request to domain components.
func (r BlendRequest) ToComponents() []composition.Component {
	out := make([]composition.Component, len(r.Components))
	for i, c := range r.Components {
		out[i] = composition.Component{Qty: c.Qty, FatPercent: c.FatPercent, SNFPercent: c.SNFPercent}
	}
	return out
}

// TotalsResponse blends the raw and the finished milk of a stock entry.
type TotalsResponse struct {
	Name     string            `json:"name"`
	Raw      composition.Blend `json:"raw"`
	Finished composition.Blend `json:"finished"`
}

// --- Stock ---

// BalanceResponse is the stock of an item in a warehouse.
type BalanceResponse struct {
	ItemCode  string          `json:"itemCode"`
	Warehouse string          `json:"warehouse"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// FromBalances converts register balances to response DTOs.
func FromBalances(balances []stock.Balance) []BalanceResponse {
	out := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = BalanceResponse{
			ItemCode:  b.ItemCode,
			Warehouse: b.Warehouse,
			Quantity:  b.Quantity.Decimal(),
		}
	}
	return out
}
