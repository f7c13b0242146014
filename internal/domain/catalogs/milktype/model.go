// Package milktype provides the Milk Type catalog: how a kind of milk is priced.
package milktype

import (
	"context"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/entity"
)

// RateModel selects how a line amount is derived.
type RateModel string

const (
	// RatePerVolume charges the final rate per litre.
	RatePerVolume RateModel = "Per Litre"
	// RatePerFatMass charges the final rate per kilogram of fat.
	RatePerFatMass RateModel = "Per KG Fat"
)

// MilkType describes the rate model and composition adjustments for a milk kind.
type MilkType struct {
	entity.Catalog

	RateModel RateModel `db:"rate_model" json:"rateModel"`

	FatAdditionRate  decimal.Decimal `db:"fat_addition_rate" json:"fatAdditionRate"`
	FatDeductionRate decimal.Decimal `db:"fat_deduction_rate" json:"fatDeductionRate"`
	SNFAdditionRate  decimal.Decimal `db:"snf_addition_rate" json:"snfAdditionRate"`
	SNFDeductionRate decimal.Decimal `db:"snf_deduction_rate" json:"snfDeductionRate"`

	EnableFatAddition  bool `db:"enable_fat_addition" json:"enableFatAddition"`
	EnableFatDeduction bool `db:"enable_fat_deduction" json:"enableFatDeduction"`
	EnableSNFAddition  bool `db:"enable_snf_addition" json:"enableSnfAddition"`
	EnableSNFDeduction bool `db:"enable_snf_deduction" json:"enableSnfDeduction"`
}

// NewMilkType creates a milk type with no adjustments enabled.
func NewMilkType(code string, model RateModel) *MilkType {
	return &MilkType{
		Catalog:   entity.NewCatalog(code, code),
		RateModel: model,
	}
}

// Validate implements entity.Validatable. The rate model is checked when pricing.
func (m *MilkType) Validate(ctx context.Context) error {
	return m.Catalog.Validate(ctx)
}
