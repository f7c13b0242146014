package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"milkledger/internal/app"
	appctx "milkledger/internal/core/context"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/infrastructure/storage/memory"
)

var postingNow = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	t     *testing.T
	ctx   context.Context
	c     *app.Container
	store *memory.Store
}

func setup(t *testing.T) *env {
	t.Helper()

	store := memory.New()
	c := app.New(app.MemoryRepositories(store), app.Options{
		Clock: types.FixedClock{At: postingNow},
	})
	e := &env{
		t:     t,
		ctx:   appctx.WithActor(context.Background(), "qa@dairy"),
		c:     c,
		store: store,
	}
	e.seed()
	return e
}

func (e *env) seed() {
	for _, code := range []string{"MILK-COW", "MILK-STD"} {
		it := item.NewItem(code, code, "KG")
		it.IsMilkType = true
		it.AddConversion("Litre", d("1.0339"))
		require.NoError(e.t, e.c.Items.Create(e.ctx, it))
	}
	require.NoError(e.t, e.c.Items.Create(e.ctx, item.NewItem("CAN-20", "Milk can 20L", "Nos")))

	farm := supplier.NewSupplier("SUP-1", "Green Valley Farm")
	farm.MilkProfiles = []supplier.MilkProfile{
		{MilkType: "Cow", BaselineFat: d("3.5"), BaselineSNF: d("8.5"), BaseRate: d("40"), IsDefault: true},
		{MilkType: "Goat", BaselineFat: d("4"), BaselineSNF: d("8"), BaseRate: decimal.Zero, IsDefault: true},
	}
	require.NoError(e.t, e.c.Suppliers.Create(e.ctx, farm))

	cow := milktype.NewMilkType("Cow", milktype.RatePerVolume)
	cow.FatAdditionRate, cow.EnableFatAddition = d("2"), true
	require.NoError(e.t, e.c.MilkTypes.Create(e.ctx, cow))
	require.NoError(e.t, e.c.MilkTypes.Create(e.ctx, milktype.NewMilkType("Goat", milktype.RatePerVolume)))
}

// inspect creates a draft inspection with FAT and SNF readings.
func (e *env) inspect(t quality_inspection.InspectionType, itemCode, warehouse, fat, snf string) *quality_inspection.QualityInspection {
	e.t.Helper()
	qi := quality_inspection.NewQualityInspection(t, itemCode)
	qi.Warehouse = warehouse
	qi.AddReading("FAT", d(fat))
	qi.AddReading("SNF", d(snf))
	require.NoError(e.t, e.c.QualityInspections.Create(e.ctx, qi))
	return qi
}

type receiptLine struct {
	item, warehouse, qty, milkType, inspection string
}

func (e *env) draftReceipt(lines ...receiptLine) *purchase_receipt.PurchaseReceipt {
	e.t.Helper()
	pr := purchase_receipt.NewPurchaseReceipt("SUP-1")
	for _, l := range lines {
		line := pr.AddLine(l.item, l.warehouse, d(l.qty))
		line.MilkType = l.milkType
		line.QualityInspection = l.inspection
	}
	require.NoError(e.t, e.c.PurchaseReceipts.Create(e.ctx, pr))
	return pr
}

// receiveMilk posts a receipt of qty kg of cow milk with the given composition.
func (e *env) receiveMilk(warehouse, qty, fat, snf string) *purchase_receipt.PurchaseReceipt {
	e.t.Helper()
	qi := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", warehouse, fat, snf)
	pr := e.draftReceipt(receiptLine{"MILK-COW", warehouse, qty, "Cow", qi.Name})
	_, _, err := e.c.PurchaseReceipts.Submit(e.ctx, pr.Name)
	require.NoError(e.t, err)
	return pr
}

func (e *env) issueMilk(warehouse, qty string) *stock_entry.StockEntry {
	e.t.Helper()
	se := stock_entry.NewStockEntry(stock_entry.PurposeMaterialIssue)
	se.AddLine("MILK-COW", warehouse, "", d(qty))
	require.NoError(e.t, e.c.StockEntries.Create(e.ctx, se))
	_, _, err := e.c.StockEntries.Submit(e.ctx, se.Name)
	require.NoError(e.t, err)
	return se
}

func (e *env) draftReceiptErr(lines ...receiptLine) error {
	e.t.Helper()
	pr := purchase_receipt.NewPurchaseReceipt("SUP-1")
	for _, l := range lines {
		line := pr.AddLine(l.item, l.warehouse, d(l.qty))
		line.MilkType = l.milkType
		line.QualityInspection = l.inspection
	}
	return e.c.PurchaseReceipts.Create(e.ctx, pr)
}
