package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/id"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/infrastructure/storage/postgres"
)

const (
	stockEntriesTable    = "doc_stock_entries"
	stockEntryItemsTable = "doc_stock_entry_items"
)

// StockEntryRepo implements stock_entry.Repository.
type StockEntryRepo struct {
	*BaseDocumentRepo[*stock_entry.StockEntry]
}

// NewStockEntryRepo creates a new stock entry repository.
func NewStockEntryRepo(txManager *postgres.TxManager) *StockEntryRepo {
	lines := &stockEntryLines{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[stock_entry.Line](),
	}
	return &StockEntryRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*stock_entry.StockEntry](
			txManager,
			stockEntriesTable, "stock entry",
			postgres.ExtractDBColumns[stock_entry.StockEntry](),
			func() *stock_entry.StockEntry { return &stock_entry.StockEntry{} },
			lines,
		),
	}
}

type stockEntryLines struct {
	txManager *postgres.TxManager
	cols      []string
}

type stockEntryLineRow struct {
	DocumentID id.ID  `db:"document_id"`
	Bundle     []byte `db:"bundle"`
	stock_entry.Line
}

func (l *stockEntryLines) save(ctx context.Context, doc *stock_entry.StockEntry) error {
	cols := append([]string{"document_id", "bundle"}, l.cols...)
	rows := make([][]any, 0, len(doc.Items))
	for i := range doc.Items {
		line := &doc.Items[i]
		bundle, err := encodeBundle(line.Bundle)
		if err != nil {
			return err
		}
		_, vals := postgres.Row(line, l.cols)
		rows = append(rows, append([]any{doc.ID, bundle}, vals...))
	}
	return replaceRows(ctx, l.txManager.GetQuerier(ctx), stockEntryItemsTable, doc.ID, cols, rows)
}

func (l *stockEntryLines) load(ctx context.Context, docs []*stock_entry.StockEntry) error {
	if len(docs) == 0 {
		return nil
	}
	byID, ids := docIndex(docs)
	for _, d := range docs {
		d.Items = []stock_entry.Line{}
	}

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(append([]string{"document_id", "bundle"}, l.cols...)...).
		From(stockEntryItemsTable).
		Where(squirrel.Eq{"document_id": ids}).
		OrderBy("document_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lines query: %w", err)
	}

	var rows []stockEntryLineRow
	if err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load stock entry items: %w", err)
	}
	for _, row := range rows {
		doc, ok := byID[row.DocumentID]
		if !ok {
			continue
		}
		line := row.Line
		if line.Bundle, err = decodeBundle(row.Bundle); err != nil {
			return err
		}
		doc.Items = append(doc.Items, line)
	}
	return nil
}

var _ stock_entry.Repository = (*StockEntryRepo)(nil)
