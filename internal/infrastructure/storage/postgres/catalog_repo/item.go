package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/infrastructure/storage/postgres"
)

const (
	itemTable    = "cat_items"
	itemUOMTable = "cat_item_uoms"
)

// ItemRepo implements item.Repository. Unit conversions live in a child table.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*item.Item](
			txManager,
			itemTable, "item",
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
			func(it *item.Item) *entity.Catalog { return &it.Catalog },
		),
	}
}

type itemUOMRow struct {
	ItemCode string `db:"item_code"`
	item.UOMConversion
}

// Create inserts the item and its conversions.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseCatalogRepo.Create(ctx, it); err != nil {
			return err
		}
		return r.saveConversions(ctx, it)
	})
}

// Update saves the header with optimistic locking and replaces conversions.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseCatalogRepo.Update(ctx, it); err != nil {
			return err
		}
		return r.saveConversions(ctx, it)
	})
}

// GetByCode loads the item with its conversions.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	it, err := r.BaseCatalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := r.loadConversions(ctx, []*item.Item{it}); err != nil {
		return nil, err
	}
	return it, nil
}

// List returns a page of items with their conversions.
func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	result, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return result, err
	}
	if err := r.loadConversions(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

func (r *ItemRepo) codesQuery(prefix string) squirrel.SelectBuilder {
	return r.Builder().
		Select("code").
		From(itemTable).
		Where(squirrel.Like{"code": prefix + "%"}).
		OrderBy("code")
}

// CodesWithPrefix returns the item codes starting with prefix.
func (r *ItemRepo) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	sql, args, err := r.codesQuery(prefix).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build codes query: %w", err)
	}
	var codes []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &codes, sql, args...); err != nil {
		return nil, fmt.Errorf("item codes: %w", err)
	}
	return codes, nil
}

func (r *ItemRepo) saveConversions(ctx context.Context, it *item.Item) error {
	querier := r.querier(ctx)

	sql, args, err := r.Builder().
		Delete(itemUOMTable).
		Where(squirrel.Eq{"item_code": it.Code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete conversions: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete conversions: %w", err)
	}
	if len(it.Conversions) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(itemUOMTable).
		Columns("item_code", "line_no", "uom", "conversion_factor")
	for i, c := range it.Conversions {
		q = q.Values(it.Code, i+1, c.UOM, c.Factor)
	}
	sql, args, err = q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert conversions: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(fmt.Errorf("insert conversions: %w", err), "uom conversion", it.Code)
	}
	return nil
}

func (r *ItemRepo) loadConversions(ctx context.Context, items []*item.Item) error {
	if len(items) == 0 {
		return nil
	}
	byCode := make(map[string]*item.Item, len(items))
	codes := make([]string, 0, len(items))
	for _, it := range items {
		byCode[it.Code] = it
		codes = append(codes, it.Code)
		it.Conversions = []item.UOMConversion{}
	}

	sql, args, err := r.Builder().
		Select("item_code", "uom", "conversion_factor").
		From(itemUOMTable).
		Where(squirrel.Eq{"item_code": codes}).
		OrderBy("item_code", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build conversions query: %w", err)
	}

	var rows []itemUOMRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load conversions: %w", err)
	}
	for _, row := range rows {
		if it, ok := byCode[row.ItemCode]; ok {
			it.Conversions = append(it.Conversions, row.UOMConversion)
		}
	}
	return nil
}

var _ item.Repository = (*ItemRepo)(nil)
