package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/infrastructure/storage/postgres"
)

const ledgerTable = "reg_milk_quality_ledger"

// LedgerRepo implements milkquality.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	cols      []string
}

// NewLedgerRepo creates a new milk quality ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:      postgres.ExtractDBColumns[milkquality.LedgerEntry](),
	}
}

// Create inserts one submitted entry.
func (r *LedgerRepo) Create(ctx context.Context, e *milkquality.LedgerEntry) error {
	cols, vals := postgres.Row(e, r.cols)

	sql, args, err := r.builder.Insert(ledgerTable).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(fmt.Errorf("insert ledger entry: %w", err), "milk quality ledger entry", e.Name)
	}
	return nil
}

// ListByVoucher returns every entry of a voucher in creation order.
func (r *LedgerRepo) ListByVoucher(ctx context.Context, voucherType, voucherNo string) ([]milkquality.LedgerEntry, error) {
	return r.selectEntries(ctx, r.builder.Select(r.cols...).
		From(ledgerTable).
		Where(squirrel.Eq{"voucher_type": voucherType, "voucher_no": voucherNo}).
		OrderBy("created_at", "id"))
}

// MarkCancelled flags submitted entries as cancelled.
func (r *LedgerRepo) MarkCancelled(ctx context.Context, ids []id.ID, at time.Time, by string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql, args, err := r.builder.Update(ledgerTable).
		Set("docstatus", int(entity.StatusCancelled)).
		Set("is_cancelled", true).
		Set("cancelled_at", at).
		Set("cancelled_by", by).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"docstatus": int(entity.StatusSubmitted), "is_cancelled": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("cancel ledger entries: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// LastSubmitted returns the most recently created live entry for the item
// and warehouse, or nil.
func (r *LedgerRepo) LastSubmitted(ctx context.Context, itemCode, warehouse string) (*milkquality.LedgerEntry, error) {
	entries, err := r.selectEntries(ctx, r.builder.Select(r.cols...).
		From(ledgerTable).
		Where(squirrel.Eq{
			"item_code":    itemCode,
			"warehouse":    warehouse,
			"docstatus":    int(entity.StatusSubmitted),
			"is_cancelled": false,
		}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// listQuery builds the filtered ledger query.
func (r *LedgerRepo) listQuery(f milkquality.ListFilter) squirrel.SelectBuilder {
	q := r.builder.Select(r.cols...).From(ledgerTable)

	if !f.IncludeCancelled {
		q = q.Where(squirrel.Eq{"docstatus": int(entity.StatusSubmitted), "is_cancelled": false})
	}
	if !f.FromDate.IsZero() {
		q = q.Where(squirrel.GtOrEq{"posting_date": f.FromDate})
	}
	if !f.ToDate.IsZero() {
		q = q.Where(squirrel.LtOrEq{"posting_date": f.ToDate})
	}
	for _, eq := range []struct{ col, val string }{
		{"item_code", f.ItemCode},
		{"warehouse", f.Warehouse},
		{"voucher_type", f.VoucherType},
		{"voucher_no", f.VoucherNo},
		{"batch_no", f.BatchNo},
	} {
		if eq.val != "" {
			q = q.Where(squirrel.Eq{eq.col: eq.val})
		}
	}
	return q.OrderBy("posting_date", "posting_time", "created_at", "id")
}

// List returns entries ordered by posting date, posting time and creation.
func (r *LedgerRepo) List(ctx context.Context, filter milkquality.ListFilter) ([]milkquality.LedgerEntry, error) {
	return r.selectEntries(ctx, r.listQuery(filter))
}

func (r *LedgerRepo) selectEntries(ctx context.Context, q squirrel.SelectBuilder) ([]milkquality.LedgerEntry, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []milkquality.LedgerEntry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select ledger entries: %w", err)
	}
	return entries, nil
}

var _ milkquality.Repository = (*LedgerRepo)(nil)
