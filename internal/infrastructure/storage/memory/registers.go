package memory

import (
	"context"
	"sort"
	"time"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/registers/stock"
)

// --- Stock register ---

type stockRepo struct {
	store *Store
}

// StockRepo returns the stock register repository.
func (s *Store) StockRepo() stock.Repository {
	return &stockRepo{store: s}
}

func (r *stockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	return r.store.write(func(st *state) error {
		st.movements = append(st.movements, movements...)
		return nil
	})
}

func (r *stockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	return r.store.write(func(st *state) error {
		kept := st.movements[:0:0]
		for _, m := range st.movements {
			if m.RecorderID != recorderID {
				kept = append(kept, m)
			}
		}
		st.movements = kept
		return nil
	})
}

func (r *stockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	_ = r.store.read(func(st *state) error {
		for _, m := range st.movements {
			if m.RecorderID == recorderID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, nil
}

func (r *stockRepo) GetBalanceAt(ctx context.Context, itemCode, warehouse string, at time.Time) (types.Quantity, error) {
	var total types.Quantity
	_ = r.store.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemCode == itemCode && m.Warehouse == warehouse && !m.Period.After(at) {
				total += m.SignedQuantity()
			}
		}
		return nil
	})
	return total, nil
}

func (r *stockRepo) GetBalances(ctx context.Context, filter stock.BalanceFilter) ([]stock.Balance, error) {
	var out []stock.Balance
	_ = r.store.read(func(st *state) error {
		out = balances(st.movements, nil, func(m *entity.StockMovement) bool {
			return (filter.ItemCode == "" || m.ItemCode == filter.ItemCode) &&
				(filter.Warehouse == "" || m.Warehouse == filter.Warehouse)
		})
		return nil
	})
	if filter.ExcludeZero {
		nonZero := out[:0]
		for _, b := range out {
			if !b.Quantity.IsZero() {
				nonZero = append(nonZero, b)
			}
		}
		out = nonZero
	}
	return out, nil
}

// balances aggregates movements up to asOf (nil means all) by item and warehouse.
func balances(movements []entity.StockMovement, asOf *time.Time, keep func(m *entity.StockMovement) bool) []stock.Balance {
	type key struct{ item, warehouse string }
	sums := make(map[key]types.Quantity)
	for i := range movements {
		m := &movements[i]
		if asOf != nil && m.Period.After(*asOf) {
			continue
		}
		if !keep(m) {
			continue
		}
		sums[key{m.ItemCode, m.Warehouse}] += m.SignedQuantity()
	}

	out := make([]stock.Balance, 0, len(sums))
	for k, q := range sums {
		out = append(out, stock.Balance{ItemCode: k.item, Warehouse: k.warehouse, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemCode != out[j].ItemCode {
			return out[i].ItemCode < out[j].ItemCode
		}
		return out[i].Warehouse < out[j].Warehouse
	})
	return out
}

// --- Milk quality ledger ---

type ledgerRepo struct {
	store *Store
}

// LedgerRepo returns the milk quality ledger repository.
func (s *Store) LedgerRepo() milkquality.Repository {
	return &ledgerRepo{store: s}
}

func (r *ledgerRepo) Create(ctx context.Context, e *milkquality.LedgerEntry) error {
	return r.store.write(func(st *state) error {
		for _, existing := range st.ledger {
			if existing.Name == e.Name {
				return apperror.NewDuplicate("ledger entry", "name", e.Name)
			}
		}
		st.ledger = append(st.ledger, *e)
		return nil
	})
}

func (r *ledgerRepo) ListByVoucher(ctx context.Context, voucherType, voucherNo string) ([]milkquality.LedgerEntry, error) {
	var out []milkquality.LedgerEntry
	_ = r.store.read(func(st *state) error {
		for _, e := range st.ledger {
			if e.VoucherType == voucherType && e.VoucherNo == voucherNo {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, nil
}

func (r *ledgerRepo) MarkCancelled(ctx context.Context, ids []id.ID, at time.Time, by string) (int, error) {
	want := make(map[id.ID]bool, len(ids))
	for _, v := range ids {
		want[v] = true
	}

	n := 0
	err := r.store.write(func(st *state) error {
		for i := range st.ledger {
			e := &st.ledger[i]
			if !want[e.ID] || e.Status != entity.StatusSubmitted || e.IsCancelled {
				continue
			}
			cancelledAt := at
			e.Status = entity.StatusCancelled
			e.IsCancelled = true
			e.CancelledAt = &cancelledAt
			e.CancelledBy = by
			n++
		}
		return nil
	})
	return n, err
}

func (r *ledgerRepo) LastSubmitted(ctx context.Context, itemCode, warehouse string) (*milkquality.LedgerEntry, error) {
	var out *milkquality.LedgerEntry
	_ = r.store.read(func(st *state) error {
		// Entries are appended in creation order.
		for i := len(st.ledger) - 1; i >= 0; i-- {
			e := st.ledger[i]
			if e.ItemCode == itemCode && e.Warehouse == warehouse &&
				e.Status == entity.StatusSubmitted && !e.IsCancelled {
				out = &e
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *ledgerRepo) List(ctx context.Context, filter milkquality.ListFilter) ([]milkquality.LedgerEntry, error) {
	var out []milkquality.LedgerEntry
	_ = r.store.read(func(st *state) error {
		for _, e := range st.ledger {
			if matchEntry(&e, filter) {
				out = append(out, e)
			}
		}
		return nil
	})
	sortEntries(out)
	return out, nil
}

func matchEntry(e *milkquality.LedgerEntry, f milkquality.ListFilter) bool {
	if !f.IncludeCancelled && (e.IsCancelled || e.Status != entity.StatusSubmitted) {
		return false
	}
	day := types.DateOnly(e.PostingDate)
	if !f.FromDate.IsZero() && day.Before(types.DateOnly(f.FromDate)) {
		return false
	}
	if !f.ToDate.IsZero() && day.After(types.DateOnly(f.ToDate)) {
		return false
	}
	return (f.ItemCode == "" || e.ItemCode == f.ItemCode) &&
		(f.Warehouse == "" || e.Warehouse == f.Warehouse) &&
		(f.VoucherType == "" || e.VoucherType == f.VoucherType) &&
		(f.VoucherNo == "" || e.VoucherNo == f.VoucherNo) &&
		(f.BatchNo == "" || e.BatchNo == f.BatchNo)
}

// sortEntries orders by posting instant; ties keep creation order.
func sortEntries(entries []milkquality.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PostingAt().Before(entries[j].PostingAt())
	})
}
