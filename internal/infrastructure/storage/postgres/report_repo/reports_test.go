package report_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/domain/reports"
)

func TestLedgerQueryFilters(t *testing.T) {
	repo := NewReportRepo(nil)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.ledgerQuery(reports.MilkQualityLedgerFilter{
		FromDate:   from,
		ToDate:     to,
		Warehouses: []string{"CAN-20", "TANK-1"},
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "LEFT JOIN cat_items i ON i.code = l.item_code")
	assert.Contains(t, sql, "l.warehouse IN ($5,$6)")
	assert.Contains(t, sql, "ORDER BY l.posting_date, l.posting_time, l.created_at, l.id")
	assert.Equal(t, []any{1, false, from, to, "CAN-20", "TANK-1"}, args)
}

func TestBalanceQueryIsAsOf(t *testing.T) {
	repo := NewReportRepo(nil)
	at := time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC)

	sql, args, err := repo.balanceQuery(reports.StockBalanceReportFilter{AsOfDate: &at}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE m.period <= $1")
	assert.NotContains(t, sql, "HAVING")
	assert.Equal(t, []any{at}, args)
}

func TestRawMilkQueryJoinsReceipt(t *testing.T) {
	repo := NewReportRepo(nil)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.rawMilkQuery(reports.RawMilkTestingFilter{
		FromDate: from,
		ToDate:   to,
		Supplier: "SUP-001",
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "LEFT JOIN doc_purchase_receipts pr ON pr.name = qi.reference_name AND qi.reference_type = $1")
	assert.Contains(t, sql, "LEFT JOIN cat_suppliers s ON s.code = pr.supplier")
	assert.Contains(t, sql, "pr.supplier = $5")
	assert.NotContains(t, sql, "qi.reference_name = $")
	assert.Contains(t, sql, "ORDER BY qi.posting_date, qi.name")
	assert.Equal(t, []any{"Purchase Receipt", 1, from, to, "SUP-001"}, args)
}
