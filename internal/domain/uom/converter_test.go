package uom

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/catalogs/item"
)

type itemMap map[string]*item.Item

func (m itemMap) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	if it, ok := m[code]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", code)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func catalog() itemMap {
	milk := item.NewItem("Raw Milk", "Raw Cow Milk", "KG")
	milk.AddConversion("Litre", d("1.0339"))
	noFactor := item.NewItem("Skim", "Skim Milk", "KG")
	inLitres := item.NewItem("Cream", "Cream", "Litre")
	inLitres.AddConversion("Litre", d("3"))
	return itemMap{"Raw Milk": milk, "Skim": noFactor, "Cream": inLitres}
}

func TestResolveUsesItemFactor(t *testing.T) {
	c := NewConverter(catalog(), "KG", "Litre")
	f, err := c.Resolve(context.Background(), "Raw Milk")
	require.NoError(t, err)

	assert.Equal(t, "Raw Cow Milk", f.ItemName)
	assert.True(t, f.Value.Equal(d("1.0339")))
	assert.InDelta(t, 967.2115, f.MassToVolume(d("1000")).InexactFloat64(), 0.0001)
}

func TestResolveDegradesToFactorOne(t *testing.T) {
	c := NewConverter(catalog(), "KG", "Litre")

	f, err := c.Resolve(context.Background(), "Skim")
	require.NoError(t, err)
	assert.True(t, f.MassToVolume(d("250")).Equal(d("250")))

	f, err = c.Resolve(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.Equal(t, "KG", f.StockUOM)
	assert.True(t, f.VolumeToMass(d("10")).Equal(d("10")))
}

func TestIdentityWhenStockUnitIsVolume(t *testing.T) {
	c := NewConverter(catalog(), "KG", "Litre")
	f, err := c.Resolve(context.Background(), "Cream")
	require.NoError(t, err)

	assert.True(t, f.Identity())
	assert.True(t, f.MassToVolume(d("12.5")).Equal(d("12.5")))
}

func TestRoundTripWithinTolerance(t *testing.T) {
	factors := []string{"1.0339", "1.03", "0.97", "2.5", "1"}
	masses := []string{"0.001", "1", "333.333", "1000", "98765.4321"}
	for _, fs := range factors {
		for _, ms := range masses {
			back := VolumeToMass(MassToVolume(d(ms), d(fs)), d(fs))
			assert.InDelta(t, d(ms).InexactFloat64(), back.InexactFloat64(), 1e-9, "factor %s mass %s", fs, ms)
		}
	}
}

func TestNonPositiveFactorIsOne(t *testing.T) {
	assert.True(t, MassToVolume(d("5"), decimal.Zero).Equal(d("5")))
	assert.True(t, VolumeToMass(d("5"), d("-2")).Equal(d("5")))
}
