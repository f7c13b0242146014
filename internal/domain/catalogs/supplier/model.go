// Package supplier provides the Supplier catalog with per-milk-type pricing profiles.
package supplier

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
)

// Supplier is a milk vendor.
type Supplier struct {
	entity.Catalog

	MilkProfiles []MilkProfile `db:"-" json:"milkProfiles"`
}

// MilkProfile holds the contract terms for one milk type.
type MilkProfile struct {
	MilkType    string          `db:"milk_type" json:"milkType"`
	BaselineFat decimal.Decimal `db:"baseline_fat" json:"baselineFat"`
	BaselineSNF decimal.Decimal `db:"baseline_snf" json:"baselineSnf"`
	BaseRate    decimal.Decimal `db:"base_rate" json:"baseRate"`
	IsDefault   bool            `db:"is_default" json:"isDefault"`
}

// NewSupplier creates a supplier without profiles.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{Catalog: entity.NewCatalog(code, name)}
}

// DefaultProfile returns the default-flagged profile for milkType. Pricing
// only resolves against this row.
func (s *Supplier) DefaultProfile(milkType string) (*MilkProfile, bool) {
	for i := range s.MilkProfiles {
		p := &s.MilkProfiles[i]
		if p.IsDefault && strings.EqualFold(p.MilkType, milkType) {
			return p, true
		}
	}
	return nil, false
}

// AllowsMilkType reports whether the supplier has any profile for milkType.
func (s *Supplier) AllowsMilkType(milkType string) bool {
	for _, p := range s.MilkProfiles {
		if strings.EqualFold(p.MilkType, milkType) {
			return true
		}
	}
	return false
}

// MilkTypes lists the distinct milk types the supplier is set up for.
func (s *Supplier) MilkTypes() []string {
	out := make([]string, 0, len(s.MilkProfiles))
	seen := make(map[string]bool)
	for _, p := range s.MilkProfiles {
		if !seen[p.MilkType] {
			seen[p.MilkType] = true
			out = append(out, p.MilkType)
		}
	}
	return out
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}
	defaults := make(map[string]bool)
	for n, p := range s.MilkProfiles {
		if p.MilkType == "" {
			return apperror.NewValidation("milk type is required").
				WithDetail("field", "milkProfiles").WithDetail("row", n+1)
		}
		if p.BaseRate.IsNegative() {
			return apperror.NewValidation("base rate cannot be negative").
				WithDetail("field", "milkProfiles").WithDetail("row", n+1)
		}
		key := strings.ToUpper(p.MilkType)
		if p.IsDefault && defaults[key] {
			return apperror.NewValidation("only one default profile per milk type is allowed").
				WithDetail("milkType", p.MilkType)
		}
		defaults[key] = defaults[key] || p.IsDefault
	}
	return nil
}
