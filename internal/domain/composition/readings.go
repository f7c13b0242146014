// Package composition derives fat and SNF figures for a milk movement, either
// from a quality inspection or from the last known ledger state.
package composition

import (
	"strings"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/types"
)

// Reading is one measured parameter of an inspection, in entry order.
type Reading struct {
	Specification string          `json:"specification"`
	Value         decimal.Decimal `json:"value"`
}

// Values is the composition attached to a movement.
type Values struct {
	FatPercent decimal.Decimal `json:"fatPercent"`
	SNFPercent decimal.Decimal `json:"snfPercent"`
	FatMass    decimal.Decimal `json:"fatMass"`
	SNFMass    decimal.Decimal `json:"snfMass"`
}

// IsZero reports whether no composition is known.
func (v Values) IsZero() bool {
	return v.FatPercent.IsZero() && v.SNFPercent.IsZero()
}

var snfLabels = map[string]bool{"SNF": true, "S.N.F.": true, "S N F": true}

// ExtractReadings picks the first FAT and the first SNF reading. Labels are
// compared trimmed and case-insensitively; anything missing is zero.
func ExtractReadings(readings []Reading) (fat, snf decimal.Decimal) {
	var haveFat, haveSNF bool
	for _, r := range readings {
		label := strings.ToUpper(strings.TrimSpace(r.Specification))
		switch {
		case label == "FAT" && !haveFat:
			fat, haveFat = r.Value, true
		case snfLabels[label] && !haveSNF:
			snf, haveSNF = r.Value, true
		}
		if haveFat && haveSNF {
			break
		}
	}
	return fat, snf
}

// FromPercent builds Values for qty using mass = pct / 100 × qty.
func FromPercent(fatPct, snfPct, qty decimal.Decimal) Values {
	return Values{
		FatPercent: fatPct,
		SNFPercent: snfPct,
		FatMass:    types.PercentOf(fatPct, qty),
		SNFMass:    types.PercentOf(snfPct, qty),
	}
}

var (
	snfFatDivisor = decimal.NewFromInt(4)
	snfLRFactor   = decimal.RequireFromString("0.2")
	snfConstant   = decimal.RequireFromString("0.14")
)

// CalculateSNF estimates SNF% from fat% and a lactometer reading:
// fat/4 + 0.2 × lr + 0.14.
func CalculateSNF(fatPct, lactometer decimal.Decimal) decimal.Decimal {
	return fatPct.Div(snfFatDivisor).Add(snfLRFactor.Mul(lactometer)).Add(snfConstant)
}
