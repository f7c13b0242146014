package app_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/registers/stock"
)

func TestReceiptPostsLedgerEntryFromInspection(t *testing.T) {
	e := setup(t)

	qi := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "4.0", "8.5")
	pr := e.draftReceipt(
		receiptLine{"MILK-COW", "RAW", "1000", "Cow", qi.Name},
		receiptLine{"CAN-20", "STORE", "4", "", ""},
	)

	// Draft is refreshed from the inspection and priced on save.
	line := pr.Items[0]
	assert.True(t, line.Fat.Equal(d("4")))
	assert.True(t, line.FatKg.Equal(d("40")))
	assert.True(t, line.SNFKg.Equal(d("85")))
	assert.True(t, line.Rate.Equal(d("41")), "rate %s", line.Rate)
	assert.True(t, line.Amount.Equal(d("41000")), "amount %s", line.Amount)
	assert.True(t, pr.Items[1].Fat.IsZero())

	doc, result, err := e.c.PurchaseReceipts.Submit(e.ctx, pr.Name)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSubmitted, doc.Status)
	require.Len(t, result.Entries, 1)

	entries, err := e.c.Ledger.ListByVoucher(e.ctx, milkquality.VoucherPurchaseReceipt, pr.Name)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	mqle := entries[0]
	assert.Equal(t, "MQLE-2026-00001", mqle.Name)
	assert.Equal(t, entity.StatusSubmitted, mqle.Status)
	assert.False(t, mqle.IsCancelled)
	assert.Equal(t, "MILK-COW", mqle.ItemCode)
	assert.Equal(t, "RAW", mqle.Warehouse)
	assert.Equal(t, line.LineID.String(), mqle.VoucherDetailNo)
	assert.Equal(t, milkquality.DirectionIncoming, mqle.Direction)
	assert.Equal(t, "KG", mqle.StockUOM)
	assert.Equal(t, "Litre", mqle.UOM)
	assert.Equal(t, "08:30:00", mqle.PostingTime)
	assert.Equal(t, "qa@dairy", mqle.CreatedBy)

	assert.True(t, mqle.FatPercent.Equal(d("4")))
	assert.True(t, mqle.SNFPercent.Equal(d("8.5")))
	assert.True(t, mqle.Fat.Equal(d("40")), "fat %s", mqle.Fat)
	assert.True(t, mqle.SNF.Equal(d("85")), "snf %s", mqle.SNF)
	assert.True(t, mqle.QtyInKg.Equal(d("1000")))
	assert.InDelta(t, 967.18, mqle.QtyInLitre.InexactFloat64(), 0.05)
	assert.True(t, mqle.QtyAfterInKg.Equal(d("1000")))
	assert.InDelta(t, 967.18, mqle.QtyAfterInLitre.InexactFloat64(), 0.05)

	// The non-milk line moves stock but has no ledger entry.
	balances, err := e.c.Stock.GetBalances(e.ctx, stock.BalanceFilter{Warehouse: "STORE"})
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Quantity.Decimal().Equal(d("4")))
}

func TestCancelReceiptTwiceIsNoop(t *testing.T) {
	e := setup(t)

	qi := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "", "4.0", "8.5")
	pr := e.draftReceipt(
		receiptLine{"MILK-COW", "RAW", "600", "Cow", qi.Name},
		receiptLine{"MILK-COW", "RAW-2", "400", "Cow", qi.Name},
	)
	_, _, err := e.c.PurchaseReceipts.Submit(e.ctx, pr.Name)
	require.NoError(t, err)

	doc, result, err := e.c.PurchaseReceipts.Cancel(e.ctx, pr.Name)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, doc.Status)
	assert.Equal(t, 2, result.Cancelled)

	_, result, err = e.c.PurchaseReceipts.Cancel(e.ctx, pr.Name)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Cancelled)

	n, err := e.c.Ledger.CancelByVoucher(e.ctx, milkquality.VoucherPurchaseReceipt, pr.Name, "qa@dairy", postingNow)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := e.c.Ledger.ListByVoucher(e.ctx, milkquality.VoucherPurchaseReceipt, pr.Name)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, mqle := range entries {
		assert.Equal(t, entity.StatusCancelled, mqle.Status)
		assert.True(t, mqle.IsCancelled)
		assert.Equal(t, "qa@dairy", mqle.CancelledBy)
		require.NotNil(t, mqle.CancelledAt)
	}

	balances, err := e.c.Stock.GetBalances(e.ctx, stock.BalanceFilter{ExcludeZero: true})
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestCancelledReceiptCannotBeResubmitted(t *testing.T) {
	e := setup(t)
	pr := e.receiveMilk("RAW", "100", "4", "8.5")

	_, _, err := e.c.PurchaseReceipts.Cancel(e.ctx, pr.Name)
	require.NoError(t, err)

	_, _, err = e.c.PurchaseReceipts.Submit(e.ctx, pr.Name)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))

	entries, err := e.c.Ledger.ListByVoucher(e.ctx, milkquality.VoucherPurchaseReceipt, pr.Name)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestIssueWithoutHistoryPostsZeros(t *testing.T) {
	e := setup(t)

	se := e.issueMilk("RAW-EMPTY", "50")

	entries, err := e.c.Ledger.ListByVoucher(e.ctx, milkquality.VoucherStockEntry, se.Name)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	mqle := entries[0]
	assert.Equal(t, milkquality.DirectionOutgoing, mqle.Direction)
	assert.Equal(t, "RAW-EMPTY", mqle.Warehouse)
	assert.True(t, mqle.FatPercent.IsZero())
	assert.True(t, mqle.SNFPercent.IsZero())
	assert.True(t, mqle.Fat.IsZero())
	assert.True(t, mqle.SNF.IsZero())
	assert.True(t, mqle.QtyInKg.Equal(d("50")), "outgoing quantity is a magnitude")
	assert.True(t, mqle.QtyAfterInKg.Equal(d("-50")))
}

func TestCarryForwardRepeatsLastDirectReading(t *testing.T) {
	e := setup(t)
	e.receiveMilk("RAW", "1000", "4.0", "8.5")

	for i := 0; i < 3; i++ {
		se := e.issueMilk("RAW", "100")
		entries, err := e.c.Ledger.ListByVoucher(e.ctx, milkquality.VoucherStockEntry, se.Name)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].FatPercent.Equal(d("4")))
		assert.True(t, entries[0].SNFPercent.Equal(d("8.5")))
		assert.True(t, entries[0].Fat.Equal(d("4")), "fat %s", entries[0].Fat)
	}

	// An internal tank check replaces the known composition.
	check := e.inspect(quality_inspection.TypeInternal, "MILK-COW", "RAW", "3.8", "8.2")
	_, result, err := e.c.QualityInspections.Submit(e.ctx, check.Name)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)

	snapshot := result.Entries[0]
	assert.Equal(t, milkquality.DirectionSnapshot, snapshot.Direction)
	assert.Equal(t, milkquality.VoucherQualityInspection, snapshot.VoucherType)
	assert.True(t, snapshot.QtyInKg.IsZero())
	assert.True(t, snapshot.QtyInLitre.IsZero())
	assert.True(t, snapshot.QtyAfterInKg.Equal(d("700")))
	assert.True(t, snapshot.Fat.Equal(d("26.6")), "fat %s", snapshot.Fat)

	se := e.issueMilk("RAW", "100")
	entries, err := e.c.Ledger.ListByVoucher(e.ctx, milkquality.VoucherStockEntry, se.Name)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].FatPercent.Equal(d("3.8")))
	assert.True(t, entries[0].SNFPercent.Equal(d("8.2")))
}

func TestNonInternalInspectionDoesNotPost(t *testing.T) {
	e := setup(t)
	qi := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "4", "8.5")

	doc, result, err := e.c.QualityInspections.Submit(e.ctx, qi.Name)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSubmitted, doc.Status)
	assert.Empty(t, result.Entries)
}

func TestManufactureConservesFat(t *testing.T) {
	e := setup(t)
	e.receiveMilk("RAW", "1000", "4.0", "8.5")

	se := stock_entry.NewStockEntry(stock_entry.PurposeManufacture)
	se.AddLine("MILK-COW", "RAW", "", d("1000"))
	finished := se.AddLine("MILK-STD", "", "FG", d("1000"))
	finished.IsFinishedItem = true
	require.NoError(t, e.c.StockEntries.Create(e.ctx, se))

	qi := e.inspect(quality_inspection.TypeInProcess, "MILK-STD", "FG", "4.0", "8.5")
	se, err := e.c.StockEntries.Get(e.ctx, se.Name)
	require.NoError(t, err)
	se.Items[1].QualityInspection = qi.Name
	require.NoError(t, e.c.StockEntries.Update(e.ctx, se))

	raw, fin, err := e.c.StockEntries.Totals(e.ctx, se.Name)
	require.NoError(t, err)
	assert.True(t, raw.TotalFatMass.Equal(fin.TotalFatMass), "draft totals %s vs %s", raw.TotalFatMass, fin.TotalFatMass)

	_, result, err := e.c.StockEntries.Submit(e.ctx, se.Name)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	// Finished lines are posted before raw material.
	assert.Equal(t, "MILK-STD", result.Entries[0].ItemCode)
	assert.Equal(t, milkquality.DirectionIncoming, result.Entries[0].Direction)
	assert.Equal(t, "MILK-COW", result.Entries[1].ItemCode)
	assert.Equal(t, milkquality.DirectionOutgoing, result.Entries[1].Direction)
	assert.True(t, result.Entries[1].QtyAfterInKg.IsZero())

	var in, out = d("0"), d("0")
	for _, mqle := range result.Entries {
		expected := mqle.QtyInKg.Mul(mqle.FatPercent).Div(d("100"))
		assert.True(t, mqle.Fat.Equal(expected), "fat %s, want %s", mqle.Fat, expected)
		if mqle.Direction == milkquality.DirectionIncoming {
			in = in.Add(mqle.Fat)
		} else {
			out = out.Add(mqle.Fat)
		}
	}
	assert.True(t, in.Equal(out), "in %s out %s", in, out)
	assert.True(t, in.Equal(d("40")))
}

func TestFailingLineRollsBackWholeDocument(t *testing.T) {
	e := setup(t)

	good := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "4", "8.5")
	bad := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "-1", "8.5")
	pr := e.draftReceipt(
		receiptLine{"MILK-COW", "RAW", "100", "Cow", good.Name},
		receiptLine{"MILK-COW", "RAW", "100", "Cow", bad.Name},
	)

	_, _, err := e.c.PurchaseReceipts.Submit(e.ctx, pr.Name)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidLine(err), "got %v", err)

	all, err := e.c.Ledger.List(e.ctx, milkquality.ListFilter{IncludeCancelled: true})
	require.NoError(t, err)
	assert.Empty(t, all)

	balances, err := e.c.Stock.GetBalances(e.ctx, stock.BalanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, balances)

	doc, err := e.c.PurchaseReceipts.Get(e.ctx, pr.Name)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, doc.Status)

	// Entry numbers drawn by the failed attempt are given back.
	e.receiveMilk("RAW", "10", "4", "8.5")
	all, err = e.c.Ledger.List(e.ctx, milkquality.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "MQLE-2026-00001", all[0].Name)
}

func TestLineWithoutWarehouseIsRejected(t *testing.T) {
	e := setup(t)
	pr := e.draftReceipt(receiptLine{"CAN-20", "", "2", "", ""})

	_, _, err := e.c.PurchaseReceipts.Submit(e.ctx, pr.Name)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidLine(err))
}

func TestMissingBaseRateBlocksSave(t *testing.T) {
	e := setup(t)
	qi := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "4", "8.5")

	pr := e.draftReceiptErr(receiptLine{"MILK-COW", "RAW", "100", "Goat", qi.Name})
	require.Error(t, pr)
	assert.True(t, apperror.IsConfiguration(pr), "got %v", pr)

	list, err := e.c.PurchaseReceipts.List(e.ctx, documents.ListFilter{ListFilter: domain.DefaultListFilter()})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestSupplierMilkTypeRestriction(t *testing.T) {
	e := setup(t)

	err := e.draftReceiptErr(receiptLine{"MILK-COW", "RAW", "100", "", ""})
	assert.True(t, apperror.IsMissingInput(err), "got %v", err)

	err = e.draftReceiptErr(receiptLine{"MILK-COW", "RAW", "100", "Buffalo", ""})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSubmittedReceiptIsImmutable(t *testing.T) {
	e := setup(t)
	pr := e.receiveMilk("RAW", "100", "4", "8.5")

	doc, err := e.c.PurchaseReceipts.Get(e.ctx, pr.Name)
	require.NoError(t, err)
	doc.TankerNo = "KA-01-9999"
	err = e.c.PurchaseReceipts.Update(e.ctx, doc)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentSubmitted, appErr.Code)

	assert.Error(t, e.c.PurchaseReceipts.Delete(e.ctx, pr.Name))
}

func TestMakeInspectionsLinksReceiptLine(t *testing.T) {
	e := setup(t)
	pr := e.draftReceipt(receiptLine{"MILK-COW", "RAW", "500", "Cow", ""})
	lineID := pr.Items[0].LineID.String()

	_, err := e.c.QualityInspections.MakeInspections(e.ctx, milkquality.VoucherPurchaseReceipt, pr.Name,
		[]quality_inspection.Request{{LineID: lineID, SampleSize: d("600")}})
	require.Error(t, err)

	created, err := e.c.QualityInspections.MakeInspections(e.ctx, milkquality.VoucherPurchaseReceipt, pr.Name,
		[]quality_inspection.Request{{
			LineID:     lineID,
			SampleSize: d("1"),
			Readings: []quality_inspection.Reading{
				{Specification: "fat", Numeric: true, Value: d("4.5")},
				{Specification: "S.N.F.", Numeric: true, Value: d("8.6")},
				{Specification: "Smell", Status: quality_inspection.StatusAccepted},
			},
		}})
	require.NoError(t, err)
	require.Len(t, created, 1)

	qi := created[0]
	assert.Equal(t, quality_inspection.TypeIncoming, qi.InspectionType)
	assert.Equal(t, "RAW", qi.Warehouse)
	assert.Equal(t, pr.Name, qi.ReferenceName)
	assert.Equal(t, "Ok", qi.Readings[2].ReadingValue)

	doc, err := e.c.PurchaseReceipts.Get(e.ctx, pr.Name)
	require.NoError(t, err)
	assert.Equal(t, qi.Name, doc.Items[0].QualityInspection)
	assert.True(t, doc.Items[0].Fat.Equal(d("4.5")))
	assert.True(t, doc.Items[0].SNFKg.Equal(d("43")))
	assert.True(t, doc.Items[0].Rate.Equal(d("42")), "rate %s", doc.Items[0].Rate)
}

func TestMakeInspectionsForStockEntryIsInProcess(t *testing.T) {
	e := setup(t)

	se := stock_entry.NewStockEntry(stock_entry.PurposeManufacture)
	se.AddLine("MILK-COW", "RAW", "", d("100"))
	fin := se.AddLine("MILK-STD", "", "FG", d("100"))
	fin.IsFinishedItem = true
	require.NoError(t, e.c.StockEntries.Create(e.ctx, se))

	created, err := e.c.QualityInspections.MakeInspections(e.ctx, milkquality.VoucherStockEntry, se.Name,
		[]quality_inspection.Request{{LineID: se.Items[1].LineID.String(), InspectionType: quality_inspection.TypeIncoming}})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, quality_inspection.TypeInProcess, created[0].InspectionType)
	assert.Equal(t, "FG", created[0].Warehouse)
}

func TestConcurrentSubmitsSerializePerWarehouse(t *testing.T) {
	e := setup(t)

	names := make([]string, 5)
	for i := range names {
		qi := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "4", "8.5")
		names[i] = e.draftReceipt(receiptLine{"MILK-COW", "RAW", "100", "Cow", qi.Name}).Name
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(names))
	for _, name := range names {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := e.c.PurchaseReceipts.Submit(e.ctx, name)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := e.c.Ledger.List(e.ctx, milkquality.ListFilter{ItemCode: "MILK-COW", Warehouse: "RAW"})
	require.NoError(t, err)
	require.Len(t, entries, 5)

	seen := make(map[string]bool)
	for _, mqle := range entries {
		seen[mqle.QtyAfterInKg.String()] = true
	}
	assert.Equal(t, map[string]bool{"100": true, "200": true, "300": true, "400": true, "500": true}, seen)
}

func TestLifecycleIsAudited(t *testing.T) {
	e := setup(t)
	pr := e.receiveMilk("RAW", "100", "4", "8.5")
	_, _, err := e.c.PurchaseReceipts.Cancel(e.ctx, pr.Name)
	require.NoError(t, err)

	history, err := e.c.PurchaseReceipts.History(e.ctx, pr.Name, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, documents.AuditCancel, history[0].Action)
	assert.Equal(t, documents.AuditSubmit, history[1].Action)
	assert.Equal(t, documents.AuditCreate, history[2].Action)
	assert.Equal(t, "qa@dairy", history[0].Actor)
	assert.Contains(t, string(history[1].Snapshot), `"docstatus":1`)
}

func TestFailedSubmitLeavesNoAuditRecord(t *testing.T) {
	e := setup(t)
	bad := e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "-1", "8.5")
	pr := e.draftReceipt(receiptLine{"MILK-COW", "RAW", "100", "Cow", bad.Name})

	_, _, err := e.c.PurchaseReceipts.Submit(e.ctx, pr.Name)
	require.Error(t, err)

	history, err := e.c.PurchaseReceipts.History(e.ctx, pr.Name, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, documents.AuditCreate, history[0].Action)
}
