package memory

import (
	"context"
	"sort"
	"strings"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
)

// documentRepo implements documents.Repository over one state table keyed by name.
type documentRepo[T documents.Doc] struct {
	store      *Store
	entityName string
	table      func(st *state) map[string]T
	clone      func(T) T
}

func (r *documentRepo[T]) Create(ctx context.Context, doc T) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		name := doc.Base().Name
		if _, ok := tbl[name]; ok {
			return apperror.NewDuplicate(r.entityName, "name", name)
		}
		tbl[name] = r.clone(doc)
		return nil
	})
}

func (r *documentRepo[T]) Update(ctx context.Context, doc T) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		b := doc.Base()
		current, ok := tbl[b.Name]
		if !ok {
			return apperror.NewNotFound(r.entityName, b.Name)
		}
		if current.Base().Version != b.Version {
			return apperror.NewConcurrentModification(r.entityName, b.Name)
		}
		b.Version++
		tbl[b.Name] = r.clone(doc)
		return nil
	})
}

func (r *documentRepo[T]) GetByName(ctx context.Context, name string) (T, error) {
	var out T
	err := r.store.read(func(st *state) error {
		doc, ok := r.table(st)[name]
		if !ok {
			return apperror.NewNotFound(r.entityName, name)
		}
		out = r.clone(doc)
		return nil
	})
	return out, err
}

func (r *documentRepo[T]) Delete(ctx context.Context, name string) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		if _, ok := tbl[name]; !ok {
			return apperror.NewNotFound(r.entityName, name)
		}
		delete(tbl, name)
		return nil
	})
}

func (r *documentRepo[T]) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[T], error) {
	var matched []T
	_ = r.store.read(func(st *state) error {
		search := strings.ToLower(filter.Search)
		for _, doc := range r.table(st) {
			if !matchDocument(doc.Base(), filter, search) {
				continue
			}
			matched = append(matched, r.clone(doc))
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].Base(), matched[j].Base()
		if !a.PostingDate.Equal(b.PostingDate) {
			return a.PostingDate.After(b.PostingDate)
		}
		return a.Name > b.Name
	})
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func matchDocument(d *entity.Document, filter documents.ListFilter, search string) bool {
	if filter.Status != nil && d.Status != *filter.Status {
		return false
	}
	if filter.DateFrom != nil && d.PostingDate.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && d.PostingDate.After(*filter.DateTo) {
		return false
	}
	if search != "" && !strings.Contains(strings.ToLower(d.Name), search) {
		return false
	}
	return true
}

// PurchaseReceiptRepo returns the purchase receipt repository.
func (s *Store) PurchaseReceiptRepo() purchase_receipt.Repository {
	return &documentRepo[*purchase_receipt.PurchaseReceipt]{
		store:      s,
		entityName: "purchase receipt",
		table: func(st *state) map[string]*purchase_receipt.PurchaseReceipt {
			return st.receipts
		},
		clone: cloneReceipt,
	}
}

// QualityInspectionRepo returns the quality inspection repository.
func (s *Store) QualityInspectionRepo() quality_inspection.Repository {
	return &documentRepo[*quality_inspection.QualityInspection]{
		store:      s,
		entityName: "quality inspection",
		table: func(st *state) map[string]*quality_inspection.QualityInspection {
			return st.inspections
		},
		clone: cloneInspection,
	}
}

// StockEntryRepo returns the stock entry repository.
func (s *Store) StockEntryRepo() stock_entry.Repository {
	return &documentRepo[*stock_entry.StockEntry]{
		store:      s,
		entityName: "stock entry",
		table: func(st *state) map[string]*stock_entry.StockEntry {
			return st.stockEntries
		},
		clone: cloneStockEntry,
	}
}
