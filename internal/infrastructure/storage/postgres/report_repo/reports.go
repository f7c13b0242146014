// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/reports"
	"milkledger/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ledgerQuery selects live ledger entries with the item's stock unit.
func (r *ReportRepo) ledgerQuery(filter reports.MilkQualityLedgerFilter) squirrel.SelectBuilder {
	q := r.builder.Select(
		"l.name", "l.posting_date", "l.posting_time",
		"l.item_code", "l.item_name", "l.warehouse", "l.batch_no",
		"l.voucher_type", "l.voucher_no",
		"l.uom", "COALESCE(i.stock_uom, '') AS item_stock_uom",
		"l.fat_per", "l.snf_per", "l.fat", "l.snf",
		"l.qty_in_liter", "l.qty_in_kg",
		"l.qty_after_transaction_in_liter", "l.qty_after_transaction_in_kg",
		"l.created_at",
	).
		From("reg_milk_quality_ledger l").
		LeftJoin("cat_items i ON i.code = l.item_code").
		Where(squirrel.Eq{"l.docstatus": int(entity.StatusSubmitted), "l.is_cancelled": false}).
		Where(squirrel.GtOrEq{"l.posting_date": filter.FromDate}).
		Where(squirrel.LtOrEq{"l.posting_date": filter.ToDate})

	if len(filter.ItemCodes) > 0 {
		q = q.Where(squirrel.Eq{"l.item_code": filter.ItemCodes})
	}
	if len(filter.Warehouses) > 0 {
		q = q.Where(squirrel.Eq{"l.warehouse": filter.Warehouses})
	}
	if filter.VoucherType != "" {
		q = q.Where(squirrel.Eq{"l.voucher_type": filter.VoucherType})
	}
	if filter.VoucherNo != "" {
		q = q.Where(squirrel.Eq{"l.voucher_no": filter.VoucherNo})
	}
	if filter.BatchNo != "" {
		q = q.Where(squirrel.Eq{"l.batch_no": filter.BatchNo})
	}

	return q.OrderBy("l.posting_date", "l.posting_time", "l.created_at", "l.id")
}

// GetMilkQualityLedger returns non-cancelled entries of the period.
func (r *ReportRepo) GetMilkQualityLedger(ctx context.Context, filter reports.MilkQualityLedgerFilter) ([]reports.MilkQualityLedgerRow, error) {
	sql, args, err := r.ledgerQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := []reports.MilkQualityLedgerRow{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("milk quality ledger: %w", err)
	}
	return rows, nil
}

// rawMilkQuery selects submitted inspections of the period with the receipt
// they were taken from.
func (r *ReportRepo) rawMilkQuery(filter reports.RawMilkTestingFilter) squirrel.SelectBuilder {
	q := r.builder.Select(
		"qi.id", "qi.name", "qi.posting_date",
		"COALESCE(pr.name, '') AS purchase_receipt",
		"COALESCE(pr.tanker_no, '') AS tanker_no",
		"COALESCE(pr.supplier, '') AS supplier",
		"COALESCE(s.name, '') AS supplier_name",
		"COALESCE(pr.net_weight, 0) AS net_weight",
		"qi.in_time", "qi.out_time",
		"qi.mbrt_start_time", "qi.mbrt_end_time", "qi.mbrt_total_time",
		"qi.remarks",
	).
		From("doc_quality_inspections qi").
		LeftJoin("doc_purchase_receipts pr ON pr.name = qi.reference_name AND qi.reference_type = ?",
			milkquality.VoucherPurchaseReceipt).
		LeftJoin("cat_suppliers s ON s.code = pr.supplier").
		Where(squirrel.Eq{"qi.docstatus": int(entity.StatusSubmitted)}).
		Where(squirrel.GtOrEq{"qi.posting_date": filter.FromDate}).
		Where(squirrel.LtOrEq{"qi.posting_date": filter.ToDate})

	if filter.QualityInspection != "" {
		q = q.Where(squirrel.Eq{"qi.name": filter.QualityInspection})
	}
	if filter.PurchaseReceipt != "" {
		q = q.Where(squirrel.Eq{"qi.reference_name": filter.PurchaseReceipt})
	}
	if filter.Supplier != "" {
		q = q.Where(squirrel.Eq{"pr.supplier": filter.Supplier})
	}

	return q.OrderBy("qi.posting_date", "qi.name")
}

type rawReadingRow struct {
	DocumentID id.ID `db:"document_id"`
	reports.RawMilkReading
}

// GetRawMilkTesting returns submitted inspections with their readings.
func (r *ReportRepo) GetRawMilkTesting(ctx context.Context, filter reports.RawMilkTestingFilter) ([]reports.RawMilkTestingRow, error) {
	sql, args, err := r.rawMilkQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	rows := []reports.RawMilkTestingRow{}
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("raw milk testing: %w", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	byID := make(map[id.ID]int, len(rows))
	ids := make([]id.ID, 0, len(rows))
	for i, row := range rows {
		byID[row.ID] = i
		ids = append(ids, row.ID)
	}

	sql, args, err = r.builder.
		Select("document_id", "specification", "is_numeric", "reading_1", "reading_value").
		From("doc_quality_inspection_readings").
		Where(squirrel.Eq{"document_id": ids}).
		OrderBy("document_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build readings query: %w", err)
	}

	var readings []rawReadingRow
	if err := pgxscan.Select(ctx, q, &readings, sql, args...); err != nil {
		return nil, fmt.Errorf("raw milk readings: %w", err)
	}
	for _, rd := range readings {
		if i, ok := byID[rd.DocumentID]; ok {
			rows[i].Readings = append(rows[i].Readings, rd.RawMilkReading)
		}
	}
	return rows, nil
}

// balanceQuery sums stock movements up to the report date, joined with item details.
func (r *ReportRepo) balanceQuery(filter reports.StockBalanceReportFilter) squirrel.SelectBuilder {
	signed := "CASE WHEN m.record_type = 'receipt' THEN m.quantity ELSE -m.quantity END"

	q := r.builder.Select(
		"m.item_code",
		"COALESCE(i.name, m.item_code) AS item_name",
		"m.warehouse",
		"COALESCE(i.stock_uom, '') AS stock_uom",
		"(SUM("+signed+") / 10000.0)::numeric AS quantity",
	).
		From("reg_stock_movements m").
		LeftJoin("cat_items i ON i.code = m.item_code").
		Where(squirrel.LtOrEq{"m.period": *filter.AsOfDate}).
		GroupBy("m.item_code", "i.name", "m.warehouse", "i.stock_uom").
		OrderBy("m.item_code", "m.warehouse")

	if len(filter.ItemCodes) > 0 {
		q = q.Where(squirrel.Eq{"m.item_code": filter.ItemCodes})
	}
	if len(filter.Warehouses) > 0 {
		q = q.Where(squirrel.Eq{"m.warehouse": filter.Warehouses})
	}
	if filter.ExcludeZero {
		q = q.Having("SUM(" + signed + ") <> 0")
	}
	return q
}

// GetStockBalanceReport generates the stock balance report as of filter.AsOfDate.
func (r *ReportRepo) GetStockBalanceReport(ctx context.Context, filter reports.StockBalanceReportFilter) (*reports.StockBalanceReport, error) {
	sql, args, err := r.balanceQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	report := &reports.StockBalanceReport{
		AsOfDate:      *filter.AsOfDate,
		Items:         []reports.StockBalanceReportItem{},
		TotalQuantity: decimal.Zero,
	}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &report.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("stock balance report: %w", err)
	}

	report.TotalItems = len(report.Items)
	for _, it := range report.Items {
		report.TotalQuantity = report.TotalQuantity.Add(it.Quantity)
	}
	return report, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
