package pricing

import (
	"github.com/shopspring/decimal"

	"milkledger/internal/core/types"
	"milkledger/internal/domain/catalogs/milktype"
)

// LinePrice is the rounded pricing block stored on a purchase line.
type LinePrice struct {
	RateModel           milktype.RateModel `db:"milk_rate_type" json:"milkRateType,omitempty"`
	BaseRate            decimal.Decimal    `db:"milk_base_rate" json:"milkBaseRate"`
	FatAddition         decimal.Decimal    `db:"milk_fat_addition" json:"milkFatAddition"`
	FatDeduction        decimal.Decimal    `db:"milk_fat_deduction" json:"milkFatDeduction"`
	SNFAddition         decimal.Decimal    `db:"milk_snf_addition" json:"milkSnfAddition"`
	SNFDeduction        decimal.Decimal    `db:"milk_snf_deduction" json:"milkSnfDeduction"`
	FinalRate           decimal.Decimal    `db:"milk_final_rate" json:"milkFinalRate"`
	FinalAmount         decimal.Decimal    `db:"milk_final_amount" json:"milkFinalAmount"`
	PayableFatKg        decimal.Decimal    `db:"milk_payable_fat_kg" json:"milkPayableFatKg"`
	RatePerLitreDisplay decimal.Decimal    `db:"milk_rate_per_litre_display" json:"milkRatePerLitreDisplay"`
	KgPerLitre          decimal.Decimal    `db:"milk_kg_per_litre" json:"milkKgPerLitre"`
}

// ForLine rounds a breakdown for storage and derives the line's rate and
// amount. Per-volume lines charge qty × rate; per-fat-mass lines take the
// computed amount as is.
func (b *Breakdown) ForLine(lineQty decimal.Decimal) (price LinePrice, rate, amount decimal.Decimal) {
	price = LinePrice{
		RateModel:           b.RateModel,
		BaseRate:            b.BaseRate.Round(types.RatePlaces),
		FatAddition:         b.FatAddition.Round(types.RatePlaces),
		FatDeduction:        b.FatDeduction.Round(types.RatePlaces),
		SNFAddition:         b.SNFAddition.Round(types.RatePlaces),
		SNFDeduction:        b.SNFDeduction.Round(types.RatePlaces),
		FinalRate:           b.FinalRate.Round(types.RatePlaces),
		FinalAmount:         b.Amount.Round(types.AmountPlaces),
		PayableFatKg:        b.PayableFatKg.Round(types.QuantityPlaces),
		RatePerLitreDisplay: b.RatePerLitreDisplay.Round(types.RatePlaces),
		KgPerLitre:          b.KgPerLitre,
	}

	rate = price.FinalRate
	if b.RateModel == milktype.RatePerVolume {
		amount = lineQty.Mul(rate).Round(types.AmountPlaces)
	} else {
		amount = price.FinalAmount
	}
	return price, rate, amount
}
