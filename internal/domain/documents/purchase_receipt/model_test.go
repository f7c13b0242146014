package purchase_receipt

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/registers/milkquality"
)

var now = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newReceipt() *PurchaseReceipt {
	pr := NewPurchaseReceipt("SUP-1")
	pr.Init(now, "u1")
	pr.Name = "PR-2026-00001"
	return pr
}

func TestGenerateMovementsSplitsMilkLines(t *testing.T) {
	pr := newReceipt()
	milk := pr.AddLine("MILK-COW", "RAW", d("1000"))
	milk.IsMilkType = true
	milk.QualityInspection = "QI-2026-00001"
	cans := pr.AddLine("CAN-20", "STORE", d("2"))
	cans.ConversionFactor = d("20")

	set, err := pr.GenerateMovements(context.Background(), now, now)
	require.NoError(t, err)

	require.Len(t, set.Stock, 2)
	for _, m := range set.Stock {
		assert.Equal(t, entity.RecordTypeReceipt, m.RecordType)
		assert.Equal(t, milkquality.VoucherPurchaseReceipt, m.RecorderType)
	}
	assert.True(t, set.Stock[1].Quantity.Decimal().Equal(d("40")), "stock qty uses the conversion factor")

	require.Len(t, set.Ledger, 1)
	line := set.Ledger[0]
	assert.Equal(t, "RAW", line.Warehouse())
	assert.Equal(t, milkquality.DirectionIncoming, line.Direction)
	assert.Equal(t, composition.PolicyDirectReading, line.Policy)
	assert.Equal(t, "QI-2026-00001", line.Inspection)
	assert.Equal(t, pr.Items[0].LineID.String(), line.DetailNo)

	assert.Equal(t, []string{"mqle:CAN-20:STORE", "mqle:MILK-COW:RAW"}, set.LockKeys())
}

func TestGenerateMovementsRejectsLineWithoutWarehouse(t *testing.T) {
	pr := newReceipt()
	pr.AddLine("MILK-COW", "RAW", d("10"))
	pr.AddLine("MILK-COW", "", d("10"))

	_, err := pr.GenerateMovements(context.Background(), now, now)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidLine(err))
}

func TestValidate(t *testing.T) {
	pr := newReceipt()
	assert.Error(t, pr.Validate(context.Background()), "no items")

	pr.AddLine("MILK-COW", "RAW", d("0"))
	assert.Error(t, pr.Validate(context.Background()), "zero qty")

	pr.Items[0].Qty = d("5")
	assert.NoError(t, pr.Validate(context.Background()))

	pr.Supplier = ""
	assert.Error(t, pr.Validate(context.Background()))
}

func TestTotalsAndComposition(t *testing.T) {
	pr := newReceipt()
	a := pr.AddLine("MILK-COW", "RAW", d("100"))
	a.Amount = d("4100")
	a.SetComposition(composition.FromPercent(d("4"), d("8.5"), d("100")))
	b := pr.AddLine("MILK-COW", "RAW", d("50.5"))
	b.Amount = d("2000")
	pr.RecalculateTotals()

	assert.True(t, pr.TotalQty.Equal(d("150.5")))
	assert.True(t, pr.TotalAmount.Equal(d("6100")))
	assert.True(t, pr.Items[0].FatKg.Equal(d("4")))
	assert.True(t, pr.Items[0].SNFKg.Equal(d("8.5")))
}
