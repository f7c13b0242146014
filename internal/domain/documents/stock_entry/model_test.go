package stock_entry

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/registers/milkquality"
)

var now = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newEntry(p Purpose) *StockEntry {
	se := NewStockEntry(p)
	se.Init(now, "u1")
	se.Name = "SE-2026-00001"
	return se
}

func TestManufactureOrdersFinishedLinesFirst(t *testing.T) {
	se := newEntry(PurposeManufacture)
	raw := se.AddLine("MILK-COW", "RAW", "", d("1000"))
	raw.IsMilkType = true
	culture := se.AddLine("CULTURE", "STORE", "", d("1"))
	culture.IsMilkType = false
	fin := se.AddLine("MILK-STD", "", "FG", d("1000"))
	fin.IsMilkType, fin.IsFinishedItem = true, true
	fin.QualityInspection = "QI-2026-00003"
	require.NoError(t, se.Validate(context.Background()))

	set, err := se.GenerateMovements(context.Background(), now, now)
	require.NoError(t, err)

	require.Len(t, set.Stock, 3)
	assert.Equal(t, entity.RecordTypeExpense, set.Stock[0].RecordType)
	assert.Equal(t, entity.RecordTypeReceipt, set.Stock[2].RecordType)

	require.Len(t, set.Ledger, 2)
	assert.Equal(t, "MILK-STD", set.Ledger[0].ItemCode)
	assert.Equal(t, milkquality.DirectionIncoming, set.Ledger[0].Direction)
	assert.Equal(t, composition.PolicyDirectReading, set.Ledger[0].Policy)
	assert.Equal(t, "QI-2026-00003", set.Ledger[0].Inspection)
	assert.Equal(t, "FG", set.Ledger[0].Warehouse())

	assert.Equal(t, "MILK-COW", set.Ledger[1].ItemCode)
	assert.Equal(t, milkquality.DirectionOutgoing, set.Ledger[1].Direction)
	assert.Equal(t, composition.PolicyCarryForward, set.Ledger[1].Policy)
	assert.Equal(t, "RAW", set.Ledger[1].Warehouse())
}

func TestRawLineWithTargetPostsToTarget(t *testing.T) {
	se := newEntry(PurposeManufacture)
	raw := se.AddLine("MILK-COW", "RAW", "WIP", d("500"))
	raw.IsMilkType = true
	fin := se.AddLine("MILK-STD", "", "FG", d("500"))
	fin.IsMilkType, fin.IsFinishedItem = true, true
	require.NoError(t, se.Validate(context.Background()))

	set, err := se.GenerateMovements(context.Background(), now, now)
	require.NoError(t, err)

	require.Len(t, set.Ledger, 2)
	assert.Equal(t, "MILK-COW", set.Ledger[1].ItemCode)
	assert.Equal(t, "RAW", set.Ledger[1].SourceWarehouse)
	assert.Equal(t, "WIP", set.Ledger[1].Warehouse())
	assert.Equal(t, composition.PolicyCarryForward, set.Ledger[1].Policy)
}

func TestTransferDoesNotTouchLedger(t *testing.T) {
	se := newEntry(PurposeMaterialTransfer)
	line := se.AddLine("MILK-COW", "RAW", "TANK-2", d("200"))
	line.IsMilkType = true

	set, err := se.GenerateMovements(context.Background(), now, now)
	require.NoError(t, err)
	assert.Len(t, set.Stock, 2)
	assert.Empty(t, set.Ledger)
}

func TestValidateWarehousesPerPurpose(t *testing.T) {
	tests := []struct {
		name    string
		purpose Purpose
		src     string
		tgt     string
		ok      bool
	}{
		{"issue needs source", PurposeMaterialIssue, "", "FG", false},
		{"issue", PurposeMaterialIssue, "RAW", "", true},
		{"receipt needs target", PurposeMaterialReceipt, "RAW", "", false},
		{"transfer needs both", PurposeMaterialTransfer, "RAW", "", false},
		{"same warehouse", PurposeMaterialTransfer, "RAW", "RAW", false},
		{"manufacture without finished item", PurposeManufacture, "RAW", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := newEntry(tt.purpose)
			se.AddLine("MILK-COW", tt.src, tt.tgt, d("1"))
			err := se.Validate(context.Background())
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBlendComponentsSelectsSide(t *testing.T) {
	se := newEntry(PurposeManufacture)
	a := se.AddLine("MILK-COW", "RAW", "", d("600"))
	a.IsMilkType, a.Fat, a.SNF = true, d("4"), d("8.5")
	b := se.AddLine("MILK-BUF", "RAW-2", "", d("400"))
	b.IsMilkType, b.Fat, b.SNF = true, d("6"), d("9")
	fin := se.AddLine("MILK-STD", "", "FG", d("1000"))
	fin.IsMilkType, fin.IsFinishedItem, fin.Fat = true, true, d("4.8")

	raw := composition.BlendComponents(se.BlendComponents(false))
	assert.True(t, raw.TotalFatMass.Equal(d("48")), "fat %s", raw.TotalFatMass)
	assert.True(t, raw.FatPercent.Equal(d("4.8")), "fat%% %s", raw.FatPercent)

	finished := composition.BlendComponents(se.BlendComponents(true))
	assert.True(t, finished.TotalFatMass.Equal(raw.TotalFatMass))
}
