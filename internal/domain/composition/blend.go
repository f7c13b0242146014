package composition

import (
	"github.com/shopspring/decimal"
)

// Component is one ingredient of a blend.
type Component struct {
	Qty        decimal.Decimal
	FatPercent decimal.Decimal
	SNFPercent decimal.Decimal
}

// Blend aggregates components into the composition of the mixture.
type Blend struct {
	TotalQty     decimal.Decimal `json:"totalQty"`
	TotalFatMass decimal.Decimal `json:"totalFatMass"`
	TotalSNFMass decimal.Decimal `json:"totalSnfMass"`
	FatPercent   decimal.Decimal `json:"fatPercent"`
	SNFPercent   decimal.Decimal `json:"snfPercent"`
}

// BlendComponents sums masses and derives blended percentages as
// total mass / total qty × 100. An empty or zero-quantity blend is all zeros.
func BlendComponents(components []Component) Blend {
	var b Blend
	for _, c := range components {
		v := FromPercent(c.FatPercent, c.SNFPercent, c.Qty)
		b.TotalQty = b.TotalQty.Add(c.Qty)
		b.TotalFatMass = b.TotalFatMass.Add(v.FatMass)
		b.TotalSNFMass = b.TotalSNFMass.Add(v.SNFMass)
	}
	if b.TotalQty.IsPositive() {
		hundred := decimal.NewFromInt(100)
		b.FatPercent = b.TotalFatMass.DivRound(b.TotalQty, 16).Mul(hundred)
		b.SNFPercent = b.TotalSNFMass.DivRound(b.TotalQty, 16).Mul(hundred)
	}
	return b
}
