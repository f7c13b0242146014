package memory

import (
	"context"
	"sort"
	"strings"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/itemgroup"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/catalogs/warehouse"
)

// catalogRepo implements domain.CatalogRepository over one state table.
type catalogRepo[T domain.CatalogEntity] struct {
	store      *Store
	entityName string
	table      func(st *state) map[string]T
	clone      func(T) T
	base       func(T) *entity.Catalog
}

func (r *catalogRepo[T]) Create(ctx context.Context, e T) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		code := e.GetCode()
		if _, ok := tbl[code]; ok {
			return apperror.NewDuplicate(r.entityName, "code", code)
		}
		if r.base(e).Version == 0 {
			r.base(e).Version = 1
		}
		tbl[code] = r.clone(e)
		return nil
	})
}

func (r *catalogRepo[T]) GetByCode(ctx context.Context, code string) (T, error) {
	var out T
	err := r.store.read(func(st *state) error {
		e, ok := r.table(st)[code]
		if !ok {
			return apperror.NewNotFound(r.entityName, code)
		}
		out = r.clone(e)
		return nil
	})
	return out, err
}

func (r *catalogRepo[T]) Update(ctx context.Context, e T) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		code := e.GetCode()
		current, ok := tbl[code]
		if !ok {
			return apperror.NewNotFound(r.entityName, code)
		}
		b := r.base(e)
		if b.Version != r.base(current).Version {
			return apperror.NewConcurrentModification(r.entityName, code)
		}
		b.ID = r.base(current).ID
		b.Version++
		tbl[code] = r.clone(e)
		return nil
	})
}

func (r *catalogRepo[T]) Delete(ctx context.Context, code string) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		if _, ok := tbl[code]; !ok {
			return apperror.NewNotFound(r.entityName, code)
		}
		delete(tbl, code)
		return nil
	})
}

func (r *catalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	var matched []T
	_ = r.store.read(func(st *state) error {
		search := strings.ToLower(filter.Search)
		for _, e := range r.table(st) {
			b := r.base(e)
			if b.Disabled && !filter.IncludeDisabled {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(b.Code), search) &&
				!strings.Contains(strings.ToLower(b.Name), search) {
				continue
			}
			matched = append(matched, r.clone(e))
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool {
		return r.base(matched[i]).Code < r.base(matched[j]).Code
	})
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r *catalogRepo[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var ok bool
	_ = r.store.read(func(st *state) error {
		_, ok = r.table(st)[code]
		return nil
	})
	return ok, nil
}

func paginate[T any](all []T, limit, offset int) domain.ListResult[T] {
	total := len(all)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	items := all[offset:end]
	if items == nil {
		items = []T{}
	}
	return domain.ListResult[T]{
		Items:      items,
		TotalCount: int64(total),
		Limit:      limit,
		Offset:     offset,
	}
}

type itemRepo struct {
	*catalogRepo[*item.Item]
}

// ItemRepo returns the item repository.
func (s *Store) ItemRepo() item.Repository {
	return &itemRepo{&catalogRepo[*item.Item]{
		store:      s,
		entityName: "item",
		table:      func(st *state) map[string]*item.Item { return st.items },
		clone:      cloneItem,
		base:       func(v *item.Item) *entity.Catalog { return &v.Catalog },
	}}
}

func (r *itemRepo) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	_ = r.store.read(func(st *state) error {
		for code := range st.items {
			if strings.HasPrefix(code, prefix) {
				codes = append(codes, code)
			}
		}
		return nil
	})
	sort.Strings(codes)
	return codes, nil
}

// ItemGroupRepo returns the item group repository.
func (s *Store) ItemGroupRepo() itemgroup.Repository {
	return &catalogRepo[*itemgroup.ItemGroup]{
		store:      s,
		entityName: "item group",
		table:      func(st *state) map[string]*itemgroup.ItemGroup { return st.itemGroups },
		clone:      cloneItemGroup,
		base:       func(v *itemgroup.ItemGroup) *entity.Catalog { return &v.Catalog },
	}
}

// SupplierRepo returns the supplier repository.
func (s *Store) SupplierRepo() supplier.Repository {
	return &catalogRepo[*supplier.Supplier]{
		store:      s,
		entityName: "supplier",
		table:      func(st *state) map[string]*supplier.Supplier { return st.suppliers },
		clone:      cloneSupplier,
		base:       func(v *supplier.Supplier) *entity.Catalog { return &v.Catalog },
	}
}

// MilkTypeRepo returns the milk type repository.
func (s *Store) MilkTypeRepo() milktype.Repository {
	return &catalogRepo[*milktype.MilkType]{
		store:      s,
		entityName: "milk type",
		table:      func(st *state) map[string]*milktype.MilkType { return st.milkTypes },
		clone:      cloneMilkType,
		base:       func(v *milktype.MilkType) *entity.Catalog { return &v.Catalog },
	}
}

// WarehouseRepo returns the warehouse repository.
func (s *Store) WarehouseRepo() warehouse.Repository {
	return &catalogRepo[*warehouse.Warehouse]{
		store:      s,
		entityName: "warehouse",
		table:      func(st *state) map[string]*warehouse.Warehouse { return st.warehouses },
		clone:      cloneWarehouse,
		base:       func(v *warehouse.Warehouse) *entity.Catalog { return &v.Catalog },
	}
}
