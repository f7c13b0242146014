// Package pricing computes the payable rate and amount for a milk purchase
// from the supplier's contract profile and the measured composition.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
)

// KgPerLitre is the milk density used to derive litres from weighed kilograms.
var KgPerLitre = decimal.RequireFromString("1.0339")

// SupplierReader resolves suppliers by code.
type SupplierReader interface {
	GetByCode(ctx context.Context, code string) (*supplier.Supplier, error)
}

// MilkTypeReader resolves milk types by code.
type MilkTypeReader interface {
	GetByCode(ctx context.Context, code string) (*milktype.MilkType, error)
}

// Input is one pricing request.
type Input struct {
	Supplier string          `json:"supplier"`
	MilkType string          `json:"milkType"`
	Fat      decimal.Decimal `json:"fat"`
	SNF      decimal.Decimal `json:"snf"`
	WeightKg decimal.Decimal `json:"weightKg"`
}

// Breakdown is the full, unrounded pricing result.
type Breakdown struct {
	SNF          decimal.Decimal    `json:"snf"`
	QtyLitre     decimal.Decimal    `json:"qtyLitre"`
	KgPerLitre   decimal.Decimal    `json:"kgPerLitre"`
	BaseRate     decimal.Decimal    `json:"baseRate"`
	FatAddition  decimal.Decimal    `json:"fatAddition"`
	FatDeduction decimal.Decimal    `json:"fatDeduction"`
	SNFAddition  decimal.Decimal    `json:"snfAddition"`
	SNFDeduction decimal.Decimal    `json:"snfDeduction"`
	FinalRate    decimal.Decimal    `json:"finalRate"`
	Amount       decimal.Decimal    `json:"amount"`
	RateModel    milktype.RateModel `json:"rateType"`

	// PayableFatKg is only set for the per-fat-mass model.
	PayableFatKg decimal.Decimal `json:"payableFatKg"`
	// RatePerLitreDisplay is the effective price per litre.
	RatePerLitreDisplay decimal.Decimal `json:"ratePerLitreDisplay"`
}

// Calculator prices milk purchases.
type Calculator struct {
	suppliers SupplierReader
	milkTypes MilkTypeReader
}

// NewCalculator creates a Calculator.
func NewCalculator(suppliers SupplierReader, milkTypes MilkTypeReader) *Calculator {
	return &Calculator{suppliers: suppliers, milkTypes: milkTypes}
}

// Compute prices one input. Inputs are checked in the order supplier, milk
// type, weight, fat, SNF; a zero value counts as missing.
func (c *Calculator) Compute(ctx context.Context, in Input) (*Breakdown, error) {
	switch {
	case in.Supplier == "":
		return nil, apperror.NewMissingInput("supplier")
	case in.MilkType == "":
		return nil, apperror.NewMissingInput("milk_type")
	case in.WeightKg.IsZero():
		return nil, apperror.NewMissingInput("weight_kg")
	case in.Fat.IsZero():
		return nil, apperror.NewMissingInput("fat")
	case in.SNF.IsZero():
		return nil, apperror.NewMissingInput("snf")
	}

	mt, err := c.milkTypes.GetByCode(ctx, in.MilkType)
	if apperror.IsNotFound(err) {
		return nil, apperror.NewConfiguration(fmt.Sprintf("Milk Type %s is not configured", in.MilkType)).
			WithDetail("milk_type", in.MilkType)
	}
	if err != nil {
		return nil, err
	}

	profile, err := c.profile(ctx, in)
	if err != nil {
		return nil, err
	}

	b := &Breakdown{
		SNF:        in.SNF,
		KgPerLitre: KgPerLitre,
		QtyLitre:   in.WeightKg.DivRound(KgPerLitre, 16),
		BaseRate:   profile.BaseRate,
		RateModel:  mt.RateModel,
	}

	switch mt.RateModel {
	case milktype.RatePerVolume, milktype.RatePerFatMass:
	default:
		return nil, apperror.NewUnsupportedRateModel(string(mt.RateModel)).WithDetail("milk_type", in.MilkType)
	}

	b.FatAddition, b.FatDeduction = adjust(in.Fat, profile.BaselineFat,
		mt.EnableFatAddition, mt.FatAdditionRate, mt.EnableFatDeduction, mt.FatDeductionRate)
	b.SNFAddition, b.SNFDeduction = adjust(in.SNF, profile.BaselineSNF,
		mt.EnableSNFAddition, mt.SNFAdditionRate, mt.EnableSNFDeduction, mt.SNFDeductionRate)

	b.FinalRate = b.BaseRate.Add(b.FatAddition).Add(b.SNFAddition).Sub(b.FatDeduction).Sub(b.SNFDeduction)

	if mt.RateModel == milktype.RatePerVolume {
		b.Amount = b.FinalRate.Mul(b.QtyLitre)
		b.RatePerLitreDisplay = b.FinalRate
		return b, nil
	}

	b.PayableFatKg = in.Fat.Div(decimal.NewFromInt(100)).Mul(in.WeightKg)
	b.Amount = b.PayableFatKg.Mul(b.FinalRate)
	if !b.QtyLitre.IsZero() {
		b.RatePerLitreDisplay = b.Amount.DivRound(b.QtyLitre, 16)
	}
	return b, nil
}

func (c *Calculator) profile(ctx context.Context, in Input) (*supplier.MilkProfile, error) {
	notDefined := apperror.NewConfiguration(
		fmt.Sprintf("Base Rate not defined for Supplier %s & Milk Type %s", in.Supplier, in.MilkType),
	).WithDetail("supplier", in.Supplier).WithDetail("milk_type", in.MilkType)

	sup, err := c.suppliers.GetByCode(ctx, in.Supplier)
	if apperror.IsNotFound(err) {
		return nil, notDefined
	}
	if err != nil {
		return nil, err
	}
	p, ok := sup.DefaultProfile(in.MilkType)
	if !ok || p.BaseRate.IsZero() {
		return nil, notDefined
	}
	return p, nil
}

// adjust applies addition above and deduction below a nonzero baseline.
func adjust(measured, baseline decimal.Decimal, addOn bool, addRate decimal.Decimal, dedOn bool, dedRate decimal.Decimal) (add, ded decimal.Decimal) {
	if baseline.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	diff := measured.Sub(baseline)
	if addOn && diff.IsPositive() {
		add = diff.Mul(addRate)
	}
	if dedOn && diff.IsNegative() {
		ded = diff.Abs().Mul(dedRate)
	}
	return add, ded
}
