package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/types"
)

type fakeRepo struct {
	rows    []MilkQualityLedgerRow
	ledger  MilkQualityLedgerFilter
	stock   StockBalanceReportFilter
	testing []RawMilkTestingRow
	raw     RawMilkTestingFilter
}

func (f *fakeRepo) GetRawMilkTesting(_ context.Context, filter RawMilkTestingFilter) ([]RawMilkTestingRow, error) {
	f.raw = filter
	return f.testing, nil
}

func (f *fakeRepo) GetMilkQualityLedger(_ context.Context, filter MilkQualityLedgerFilter) ([]MilkQualityLedgerRow, error) {
	f.ledger = filter
	return f.rows, nil
}

func (f *fakeRepo) GetStockBalanceReport(_ context.Context, filter StockBalanceReportFilter) (*StockBalanceReport, error) {
	f.stock = filter
	return &StockBalanceReport{AsOfDate: *filter.AsOfDate}, nil
}

var reportNow = time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC)

func day(n int) time.Time { return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC) }

func TestMilkQualityLedgerRequiresPeriod(t *testing.T) {
	svc := NewService(&fakeRepo{}, types.FixedClock{At: reportNow})

	_, err := svc.GetMilkQualityLedger(context.Background(), MilkQualityLedgerFilter{ToDate: day(2)})
	assert.True(t, apperror.IsMissingInput(err))

	_, err = svc.GetMilkQualityLedger(context.Background(), MilkQualityLedgerFilter{FromDate: day(1)})
	assert.True(t, apperror.IsMissingInput(err))

	_, err = svc.GetMilkQualityLedger(context.Background(), MilkQualityLedgerFilter{FromDate: day(5), ToDate: day(2)})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestMilkQualityLedgerRoundsAndTotals(t *testing.T) {
	repo := &fakeRepo{rows: []MilkQualityLedgerRow{
		{
			Name: "MQLE-2026-00001", UOM: "Litre", ItemUOM: "KG",
			Fat: decimal.RequireFromString("40.00049"), QtyInKg: decimal.NewFromInt(1000),
			QtyInLitre: decimal.RequireFromString("967.21153"),
		},
		{
			Name: "MQLE-2026-00002", UOM: "Litre", ItemUOM: "KG",
			Fat: decimal.RequireFromString("4"), QtyInKg: decimal.NewFromInt(100),
		},
	}}
	svc := NewService(repo, types.FixedClock{At: reportNow})

	report, err := svc.GetMilkQualityLedger(context.Background(), MilkQualityLedgerFilter{
		FromDate:   day(1).Add(15 * time.Hour),
		ToDate:     day(31),
		IncludeUOM: true,
	})
	require.NoError(t, err)

	assert.Equal(t, day(1), repo.ledger.FromDate, "dates are truncated")
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "KG", report.Rows[0].UOM)
	assert.True(t, report.Rows[0].Fat.Equal(decimal.RequireFromString("40")))
	assert.True(t, report.Rows[0].QtyInLitre.Equal(decimal.RequireFromString("967.212")))
	assert.True(t, report.TotalQtyInKg.Equal(decimal.NewFromInt(1100)))
	assert.True(t, report.TotalFat.Equal(decimal.NewFromInt(44)))
}

func TestEmptyLedgerHasNoNilRows(t *testing.T) {
	svc := NewService(&fakeRepo{}, types.FixedClock{At: reportNow})
	report, err := svc.GetMilkQualityLedger(context.Background(), MilkQualityLedgerFilter{FromDate: day(1), ToDate: day(1)})
	require.NoError(t, err)
	assert.NotNil(t, report.Rows)
	assert.True(t, report.TotalFat.IsZero())
}

func TestStockBalanceDefaultsToNow(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, types.FixedClock{At: reportNow})

	report, err := svc.GetStockBalance(context.Background(), StockBalanceReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, reportNow, report.AsOfDate)
}

func TestRawMilkTestingRequiresPeriod(t *testing.T) {
	svc := NewService(&fakeRepo{}, types.FixedClock{At: reportNow})

	_, err := svc.GetRawMilkTesting(context.Background(), RawMilkTestingFilter{ToDate: day(2)})
	assert.True(t, apperror.IsMissingInput(err))

	_, err = svc.GetRawMilkTesting(context.Background(), RawMilkTestingFilter{FromDate: day(1)})
	assert.True(t, apperror.IsMissingInput(err))

	_, err = svc.GetRawMilkTesting(context.Background(), RawMilkTestingFilter{FromDate: day(5), ToDate: day(2)})
	assert.True(t, apperror.IsValidation(err))
}

func TestRawMilkTestingPivotsReadings(t *testing.T) {
	repo := &fakeRepo{testing: []RawMilkTestingRow{{
		QualityInspection: "QI-2026-00001",
		Readings: []RawMilkReading{
			{Specification: "Fat", Numeric: true, Value: decimal.RequireFromString("4.2")},
			{Specification: "fat", Numeric: true, Value: decimal.RequireFromString("9")},
			{Specification: " SNF ", Numeric: true, Value: decimal.RequireFromString("8.5")},
			{Specification: "Alcohol", ReadingValue: "Ok"},
			{Specification: "Urea", Numeric: true, Value: decimal.Zero, ReadingValue: "Nil"},
			{Specification: "Colour", ReadingValue: "White"},
		},
	}}}
	svc := NewService(repo, types.FixedClock{At: reportNow})

	report, err := svc.GetRawMilkTesting(context.Background(), RawMilkTestingFilter{
		FromDate: day(1).Add(9 * time.Hour),
		ToDate:   day(31),
		Supplier: "SUP-001",
	})
	require.NoError(t, err)

	assert.Equal(t, day(1), repo.raw.FromDate)
	assert.Equal(t, "SUP-001", repo.raw.Supplier)
	assert.Equal(t, RawMilkParameters, report.Parameters)
	require.Len(t, report.Rows, 1)

	params := report.Rows[0].Parameters
	assert.Len(t, params, len(RawMilkParameters))
	assert.Equal(t, "4.2", params["Fat"], "first reading wins")
	assert.Equal(t, "8.5", params["SNF"])
	assert.Equal(t, "Ok", params["Alcohol"])
	assert.Equal(t, "Nil", params["Urea"])
	assert.Equal(t, "", params["Channa"])
	assert.NotContains(t, params, "Colour")
}

func TestRawMilkTestingEmptyPeriod(t *testing.T) {
	svc := NewService(&fakeRepo{}, types.FixedClock{At: reportNow})

	report, err := svc.GetRawMilkTesting(context.Background(), RawMilkTestingFilter{FromDate: day(1), ToDate: day(2)})
	require.NoError(t, err)
	assert.NotNil(t, report.Rows)
	assert.Empty(t, report.Rows)
}
