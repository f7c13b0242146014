// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
// Catalogs are addressed by their business code; the UUID is kept for joins.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
	"milkledger/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T domain.CatalogEntity] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T
	catalog    func(T) *entity.Catalog
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T domain.CatalogEntity](
	txManager *postgres.TxManager,
	tableName, entityName string,
	selectCols []string,
	newFn func() T,
	catalog func(T) *entity.Catalog,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
		newFn:      newFn,
		catalog:    catalog,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e T) error {
	if c := r.catalog(e); c.Version == 0 {
		c.Version = 1
	}
	cols, vals := postgres.Row(e, r.selectCols)
	if len(cols) == 0 {
		return fmt.Errorf("no db tags found in %s", r.entityName)
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		Columns(cols...).
		Values(vals...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(fmt.Errorf("insert %s: %w", r.tableName, err), r.entityName, e.GetCode())
	}
	return nil
}

// Update modifies an existing entity with optimistic locking and bumps the
// in-memory version on success.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, e T) error {
	c := r.catalog(e)
	data := postgres.StructToMap(e)

	q := r.Builder().Update(r.tableName)
	for _, col := range r.selectCols {
		if col == "id" || col == "version" || col == "code" {
			continue
		}
		if val, ok := data[col]; ok {
			q = q.Set(col, val)
		}
	}
	q = q.Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"code": c.Code}).
		Where(squirrel.Eq{"version": c.Version}).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&c.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		exists, existsErr := r.ExistsByCode(ctx, c.Code)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return apperror.NewNotFound(r.entityName, c.Code)
		}
		return apperror.NewConcurrentModification(r.entityName, c.Code)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}

	c.Version++
	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByCode retrieves entity by code.
func (r *BaseCatalogRepo[T]) GetByCode(ctx context.Context, code string) (T, error) {
	e := r.newFn()

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return e, apperror.NewNotFound(r.entityName, code)
		}
		return e, fmt.Errorf("get by code: %w", err)
	}
	return e, nil
}

// filtered applies the list filter without pagination.
func (r *BaseCatalogRepo[T]) filtered(filter domain.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if !filter.IncludeDisabled {
		q = q.Where(squirrel.Eq{"disabled": false})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}
	return q
}

// List retrieves entities with filtering and pagination, ordered by code.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.filtered(filter)

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("code ASC")
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
	return result, nil
}

// ExistsByCode checks if entity with given code exists.
func (r *BaseCatalogRepo[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by code: %w", err)
	}
	return true, nil
}

// Delete performs physical removal from the database.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, code string) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(fmt.Errorf("delete %s: %w", r.tableName, err), r.entityName, code)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, code)
	}
	return nil
}
