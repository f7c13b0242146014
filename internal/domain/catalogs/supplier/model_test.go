package supplier

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfileIgnoresOtherRows(t *testing.T) {
	s := NewSupplier("SUP-1", "Ramesh Dairy Farm")
	s.MilkProfiles = []MilkProfile{
		{MilkType: "Cow", BaseRate: decimal.NewFromInt(40)},
		{MilkType: "Buffalo", BaseRate: decimal.NewFromInt(55)},
		{MilkType: "Cow", BaseRate: decimal.NewFromInt(42), IsDefault: true},
	}

	p, ok := s.DefaultProfile("cow")
	require.True(t, ok)
	assert.True(t, p.BaseRate.Equal(decimal.NewFromInt(42)))

	_, ok = s.DefaultProfile("Buffalo")
	assert.False(t, ok, "a non-default row must not resolve")
	assert.True(t, s.AllowsMilkType("buffalo"))

	_, ok = s.DefaultProfile("Goat")
	assert.False(t, ok)
	assert.False(t, s.AllowsMilkType("Goat"))
	assert.Equal(t, []string{"Cow", "Buffalo"}, s.MilkTypes())
}

func TestValidateRejectsTwoDefaults(t *testing.T) {
	s := NewSupplier("SUP-1", "")
	s.MilkProfiles = []MilkProfile{
		{MilkType: "Cow", IsDefault: true},
		{MilkType: "COW", IsDefault: true},
	}
	assert.Error(t, s.Validate(context.Background()))

	s.MilkProfiles[1].IsDefault = false
	assert.NoError(t, s.Validate(context.Background()))
}
