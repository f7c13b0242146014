package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/infrastructure/storage/postgres"
)

const (
	supplierTable        = "cat_suppliers"
	supplierProfileTable = "cat_supplier_milk_profiles"
)

var profileCols = []string{"milk_type", "baseline_fat", "baseline_snf", "base_rate", "is_default"}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*supplier.Supplier](
			txManager,
			supplierTable, "supplier",
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
			func(s *supplier.Supplier) *entity.Catalog { return &s.Catalog },
		),
	}
}

type profileRow struct {
	SupplierCode string `db:"supplier_code"`
	supplier.MilkProfile
}

func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseCatalogRepo.Create(ctx, s); err != nil {
			return err
		}
		return r.saveProfiles(ctx, s)
	})
}

func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseCatalogRepo.Update(ctx, s); err != nil {
			return err
		}
		return r.saveProfiles(ctx, s)
	})
}

func (r *SupplierRepo) GetByCode(ctx context.Context, code string) (*supplier.Supplier, error) {
	s, err := r.BaseCatalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := r.loadProfiles(ctx, []*supplier.Supplier{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SupplierRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	result, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return result, err
	}
	return result, r.loadProfiles(ctx, result.Items)
}

func (r *SupplierRepo) saveProfiles(ctx context.Context, s *supplier.Supplier) error {
	querier := r.querier(ctx)

	sql, args, err := r.Builder().
		Delete(supplierProfileTable).
		Where(squirrel.Eq{"supplier_code": s.Code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete profiles: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete profiles: %w", err)
	}
	if len(s.MilkProfiles) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(supplierProfileTable).
		Columns(append([]string{"supplier_code", "line_no"}, profileCols...)...)
	for i := range s.MilkProfiles {
		_, vals := postgres.Row(&s.MilkProfiles[i], profileCols)
		q = q.Values(append([]any{s.Code, i + 1}, vals...)...)
	}
	sql, args, err = q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert profiles: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert profiles: %w", err)
	}
	return nil
}

func (r *SupplierRepo) loadProfiles(ctx context.Context, suppliers []*supplier.Supplier) error {
	if len(suppliers) == 0 {
		return nil
	}
	byCode := make(map[string]*supplier.Supplier, len(suppliers))
	codes := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		byCode[s.Code] = s
		codes = append(codes, s.Code)
		s.MilkProfiles = []supplier.MilkProfile{}
	}

	sql, args, err := r.Builder().
		Select(append([]string{"supplier_code"}, profileCols...)...).
		From(supplierProfileTable).
		Where(squirrel.Eq{"supplier_code": codes}).
		OrderBy("supplier_code", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build profiles query: %w", err)
	}

	var rows []profileRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	for _, row := range rows {
		if s, ok := byCode[row.SupplierCode]; ok {
			s.MilkProfiles = append(s.MilkProfiles, row.MilkProfile)
		}
	}
	return nil
}

var _ supplier.Repository = (*SupplierRepo)(nil)
