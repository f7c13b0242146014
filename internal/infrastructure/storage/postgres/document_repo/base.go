// Package document_repo provides PostgreSQL implementations for document repositories.
// Documents are addressed by name; their line tables reference the header id.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/id"
	"milkledger/internal/domain"
	"milkledger/internal/domain/documents"
	"milkledger/internal/infrastructure/storage/postgres"
)

// children persists the line tables of one document kind.
type children[T documents.Doc] interface {
	save(ctx context.Context, doc T) error
	load(ctx context.Context, docs []T) error
}

// BaseDocumentRepo provides header CRUD for document entities and delegates
// line tables to children.
type BaseDocumentRepo[T documents.Doc] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T
	lines      children[T]
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T documents.Doc](
	txManager *postgres.TxManager,
	tableName, entityName string,
	selectCols []string,
	newFn func() T,
	lines children[T],
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
		newFn:      newFn,
		lines:      lines,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the header and its lines.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, doc T) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b := doc.Base()
		if b.Version == 0 {
			b.Version = 1
		}
		cols, vals := postgres.Row(doc, r.selectCols)

		sql, args, err := r.Builder().
			Insert(r.tableName).
			Columns(cols...).
			Values(vals...).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return postgres.TranslateError(fmt.Errorf("insert %s: %w", r.tableName, err), r.entityName, b.Name)
		}
		return r.lines.save(ctx, doc)
	})
}

// Update saves header and lines with optimistic locking on version.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, doc T) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b := doc.Base()
		data := postgres.StructToMap(doc)

		q := r.Builder().Update(r.tableName)
		for _, col := range r.selectCols {
			switch col {
			case "id", "version", "name", "created_at", "created_by":
				continue
			}
			if val, ok := data[col]; ok {
				q = q.Set(col, val)
			}
		}
		q = q.Set("version", squirrel.Expr("version + 1")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"version": b.Version})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}

		result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("update %s: %w", r.tableName, err)
		}
		if result.RowsAffected() == 0 {
			if _, err := r.getHeader(ctx, b.Name); err != nil {
				return err
			}
			return apperror.NewConcurrentModification(r.entityName, b.Name)
		}
		b.Version++

		return r.lines.save(ctx, doc)
	})
}

func (r *BaseDocumentRepo[T]) getHeader(ctx context.Context, name string) (T, error) {
	doc := r.newFn()

	sql, args, err := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return doc, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return doc, apperror.NewNotFound(r.entityName, name)
		}
		return doc, fmt.Errorf("get by name: %w", err)
	}
	return doc, nil
}

// GetByName retrieves a document with its lines.
func (r *BaseDocumentRepo[T]) GetByName(ctx context.Context, name string) (T, error) {
	doc, err := r.getHeader(ctx, name)
	if err != nil {
		return doc, err
	}
	if err := r.lines.load(ctx, []T{doc}); err != nil {
		return doc, err
	}
	return doc, nil
}

// Delete physically removes a document; lines go with it.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, name string) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, name)
	}
	return nil
}

// filtered applies the document list filter without pagination.
func (r *BaseDocumentRepo[T]) filtered(filter documents.ListFilter) squirrel.SelectBuilder {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName)

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"docstatus": int(*filter.Status)})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"posting_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"posting_date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"remarks": pattern},
		})
	}
	return q
}

// List retrieves documents newest first, lines included.
func (r *BaseDocumentRepo[T]) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.filtered(filter)

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("posting_date DESC", "name DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	if result.Items == nil {
		result.Items = []T{}
	}
	if err := r.lines.load(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

// replaceRows deletes every row of documentID in table and inserts rows.
func replaceRows(ctx context.Context, q postgres.Querier, table string, documentID id.ID, cols []string, rows [][]any) error {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sql, args, err := builder.Delete(table).Where(squirrel.Eq{"document_id": documentID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", table, err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil
	}

	ins := builder.Insert(table).Columns(cols...)
	for _, row := range rows {
		ins = ins.Values(row...)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// docIndex maps header ids to documents for attaching loaded lines.
func docIndex[T documents.Doc](docs []T) (map[id.ID]T, []id.ID) {
	byID := make(map[id.ID]T, len(docs))
	ids := make([]id.ID, 0, len(docs))
	for _, d := range docs {
		byID[d.Base().ID] = d
		ids = append(ids, d.Base().ID)
	}
	return byID, ids
}

