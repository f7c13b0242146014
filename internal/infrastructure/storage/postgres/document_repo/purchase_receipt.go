package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/id"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/infrastructure/storage/postgres"
)

const (
	purchaseReceiptsTable     = "doc_purchase_receipts"
	purchaseReceiptItemsTable = "doc_purchase_receipt_items"
)

// PurchaseReceiptRepo implements purchase_receipt.Repository.
type PurchaseReceiptRepo struct {
	*BaseDocumentRepo[*purchase_receipt.PurchaseReceipt]
}

// NewPurchaseReceiptRepo creates a new purchase receipt repository.
func NewPurchaseReceiptRepo(txManager *postgres.TxManager) *PurchaseReceiptRepo {
	lines := &purchaseReceiptLines{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[purchase_receipt.Line](),
	}
	return &PurchaseReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*purchase_receipt.PurchaseReceipt](
			txManager,
			purchaseReceiptsTable, "purchase receipt",
			postgres.ExtractDBColumns[purchase_receipt.PurchaseReceipt](),
			func() *purchase_receipt.PurchaseReceipt { return &purchase_receipt.PurchaseReceipt{} },
			lines,
		),
	}
}

type purchaseReceiptLines struct {
	txManager *postgres.TxManager
	cols      []string
}

type purchaseReceiptLineRow struct {
	DocumentID id.ID  `db:"document_id"`
	Bundle     []byte `db:"bundle"`
	purchase_receipt.Line
}

func (l *purchaseReceiptLines) save(ctx context.Context, doc *purchase_receipt.PurchaseReceipt) error {
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
	return replaceRows(ctx, l.txManager.GetQuerier(ctx), purchaseReceiptItemsTable, doc.ID, cols, rows)
}

func (l *purchaseReceiptLines) load(ctx context.Context, docs []*purchase_receipt.PurchaseReceipt) error {
	if len(docs) == 0 {
		return nil
	}
	byID, ids := docIndex(docs)
	for _, d := range docs {
		d.Items = []purchase_receipt.Line{}
	}

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(append([]string{"document_id", "bundle"}, l.cols...)...).
		From(purchaseReceiptItemsTable).
		Where(squirrel.Eq{"document_id": ids}).
		OrderBy("document_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lines query: %w", err)
	}

	var rows []purchaseReceiptLineRow
	if err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load purchase receipt items: %w", err)
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

var _ purchase_receipt.Repository = (*PurchaseReceiptRepo)(nil)
