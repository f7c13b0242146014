package quality_inspection

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/registers/milkquality"
)

var now = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

func TestOnlyInternalInspectionPosts(t *testing.T) {
	for _, typ := range []InspectionType{TypeIncoming, TypeInProcess, TypeOutgoing} {
		qi := NewQualityInspection(typ, "MILK-COW")
		set, err := qi.GenerateMovements(context.Background(), now, now)
		require.NoError(t, err)
		assert.True(t, set.IsEmpty(), string(typ))
	}

	qi := NewQualityInspection(TypeInternal, "MILK-COW")
	qi.Name = "QI-2026-00007"
	qi.Warehouse = "TANK-1"
	qi.AddReading("FAT", decimal.RequireFromString("3.8"))
	qi.Readings = append(qi.Readings, Reading{Specification: "Colour", Status: StatusAccepted})

	set, err := qi.GenerateMovements(context.Background(), now, now)
	require.NoError(t, err)
	require.Len(t, set.Ledger, 1)

	line := set.Ledger[0]
	assert.Equal(t, milkquality.DirectionSnapshot, line.Direction)
	assert.Equal(t, composition.PolicyDirectReading, line.Policy)
	assert.Equal(t, "TANK-1", line.Warehouse())
	assert.Equal(t, "QI-2026-00007", line.Inspection)
	assert.Equal(t, []composition.Reading{{Specification: "FAT", Value: decimal.RequireFromString("3.8")}}, line.Readings)
}

func TestNormalizeReadings(t *testing.T) {
	qi := NewQualityInspection(TypeIncoming, "MILK-COW")
	qi.AddReading("FAT", decimal.NewFromInt(4))
	qi.Readings[0].ReadingValue = "stale"
	qi.Readings = append(qi.Readings,
		Reading{Specification: "Smell", Status: StatusAccepted},
		Reading{Specification: "Clot on boiling", Status: StatusRejected},
	)

	qi.NormalizeReadings()

	assert.Empty(t, qi.Readings[0].ReadingValue)
	assert.Equal(t, "Ok", qi.Readings[1].ReadingValue)
	assert.Equal(t, "Not Ok", qi.Readings[2].ReadingValue)
}

func TestValidate(t *testing.T) {
	qi := NewQualityInspection("Random", "MILK-COW")
	qi.Init(now, "u1")
	assert.Error(t, qi.Validate(context.Background()))

	qi.InspectionType = TypeIncoming
	require.NoError(t, qi.Validate(context.Background()))

	qi.Readings = append(qi.Readings, Reading{Specification: "  "})
	assert.Error(t, qi.Validate(context.Background()))
}

func TestValidateRejectsBadLabTime(t *testing.T) {
	qi := NewQualityInspection(TypeIncoming, "MILK-COW")
	qi.Init(now, "u1")
	qi.InTime = "09:15"
	qi.OutTime = "09:40:10"
	require.NoError(t, qi.Validate(context.Background()))

	qi.MBRTEnd = "25:00"
	assert.Error(t, qi.Validate(context.Background()))
}

func TestDeriveMBRTTotal(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{name: "same day", start: "08:00", end: "11:30", want: "03:30"},
		{name: "with seconds", start: "08:00:00", end: "08:45:59", want: "00:45"},
		{name: "past midnight", start: "22:00", end: "02:15", want: "04:15"},
		{name: "missing end", start: "22:00", end: "", want: ""},
		{name: "unparseable", start: "x", end: "02:15", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qi := NewQualityInspection(TypeIncoming, "MILK-COW")
			qi.MBRTStart, qi.MBRTEnd = tt.start, tt.end
			qi.DeriveMBRTTotal()
			assert.Equal(t, tt.want, qi.MBRTTotal)
		})
	}
}
