package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/id"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/infrastructure/storage/postgres"
)

const (
	qualityInspectionsTable = "doc_quality_inspections"
	readingsTable           = "doc_quality_inspection_readings"
)

// QualityInspectionRepo implements quality_inspection.Repository.
type QualityInspectionRepo struct {
	*BaseDocumentRepo[*quality_inspection.QualityInspection]
}

// NewQualityInspectionRepo creates a new quality inspection repository.
func NewQualityInspectionRepo(txManager *postgres.TxManager) *QualityInspectionRepo {
	return &QualityInspectionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*quality_inspection.QualityInspection](
			txManager,
			qualityInspectionsTable, "quality inspection",
			postgres.ExtractDBColumns[quality_inspection.QualityInspection](),
			func() *quality_inspection.QualityInspection { return &quality_inspection.QualityInspection{} },
			&readings{txManager: txManager, cols: postgres.ExtractDBColumns[quality_inspection.Reading]()},
		),
	}
}

type readings struct {
	txManager *postgres.TxManager
	cols      []string
}

type readingRow struct {
	DocumentID id.ID `db:"document_id"`
	quality_inspection.Reading
}

func (r *readings) save(ctx context.Context, doc *quality_inspection.QualityInspection) error {
	cols := append([]string{"document_id", "line_no"}, r.cols...)
	rows := make([][]any, 0, len(doc.Readings))
	for i := range doc.Readings {
		_, vals := postgres.Row(&doc.Readings[i], r.cols)
		rows = append(rows, append([]any{doc.ID, i + 1}, vals...))
	}
	return replaceRows(ctx, r.txManager.GetQuerier(ctx), readingsTable, doc.ID, cols, rows)
}

func (r *readings) load(ctx context.Context, docs []*quality_inspection.QualityInspection) error {
	if len(docs) == 0 {
		return nil
	}
	byID, ids := docIndex(docs)
	for _, d := range docs {
		d.Readings = []quality_inspection.Reading{}
	}

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(append([]string{"document_id"}, r.cols...)...).
		From(readingsTable).
		Where(squirrel.Eq{"document_id": ids}).
		OrderBy("document_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build readings query: %w", err)
	}

	var rows []readingRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load readings: %w", err)
	}
	for _, row := range rows {
		if doc, ok := byID[row.DocumentID]; ok {
			doc.Readings = append(doc.Readings, row.Reading)
		}
	}
	return nil
}

var _ quality_inspection.Repository = (*QualityInspectionRepo)(nil)
