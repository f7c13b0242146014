// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/registers/stock"
	"milkledger/internal/infrastructure/storage/postgres"
)

const stockMovementsTable = "reg_stock_movements"

var movementColumns = []string{
	"line_id", "recorder_id", "recorder_type",
	"period", "record_type",
	"warehouse", "item_code", "quantity", "created_at",
}

// signedQuantity is the SQL form of StockMovement.SignedQuantity.
const signedQuantity = "CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END"

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func movementRow(m entity.StockMovement) []any {
	return []any{
		m.LineID, m.RecorderID, m.RecorderType,
		m.Period, string(m.RecordType),
		m.Warehouse, m.ItemCode, m.Quantity.Int64Scaled(), m.CreatedAt,
	}
}

// CreateMovements batch inserts movements.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if r.txManager.GetTx(ctx) != nil {
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, movementRow(m))
		}
		if _, err := r.inserter.CopyFromSlice(ctx, stockMovementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(movementRow(m)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

// DeleteMovementsByRecorder removes all movements of a document.
func (r *StockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	sql, args, err := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

// GetMovementsByRecorder retrieves movements for a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	sql, args, err := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at", "line_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return movements, nil
}

// GetBalanceAt sums movements with period <= at.
func (r *StockRepo) GetBalanceAt(ctx context.Context, itemCode, warehouse string, at time.Time) (types.Quantity, error) {
	sql, args, err := r.builder.
		Select("COALESCE(SUM(" + signedQuantity + "), 0)::bigint").
		From(stockMovementsTable).
		Where(squirrel.Eq{"item_code": itemCode, "warehouse": warehouse}).
		Where(squirrel.LtOrEq{"period": at}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var scaled int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&scaled); err != nil {
		return 0, fmt.Errorf("calculate balance at date: %w", err)
	}
	return types.NewQuantityFromInt64Scaled(scaled), nil
}

// balanceQuery groups movements into current balances.
func (r *StockRepo) balanceQuery(filter stock.BalanceFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select("item_code", "warehouse", "SUM("+signedQuantity+")::bigint AS quantity").
		From(stockMovementsTable).
		GroupBy("item_code", "warehouse").
		OrderBy("item_code", "warehouse")

	if filter.ItemCode != "" {
		q = q.Where(squirrel.Eq{"item_code": filter.ItemCode})
	}
	if filter.Warehouse != "" {
		q = q.Where(squirrel.Eq{"warehouse": filter.Warehouse})
	}
	if filter.ExcludeZero {
		q = q.Having("SUM(" + signedQuantity + ") <> 0")
	}
	return q
}

// GetBalances returns current balances, optionally narrowed by filter.
func (r *StockRepo) GetBalances(ctx context.Context, filter stock.BalanceFilter) ([]stock.Balance, error) {
	sql, args, err := r.balanceQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	balances := []stock.Balance{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}
	return balances, nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
