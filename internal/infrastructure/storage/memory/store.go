// Package memory provides an in-process storage backend: every repository,
// a transaction manager with snapshot rollback and a numerator. It backs the
// server when no database is configured and the domain tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/itemgroup"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/catalogs/warehouse"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/pkg/logger"
)

// state is everything the store holds; transactions snapshot and restore it whole.
type state struct {
	items      map[string]*item.Item
	itemGroups map[string]*itemgroup.ItemGroup
	suppliers  map[string]*supplier.Supplier
	milkTypes  map[string]*milktype.MilkType
	warehouses map[string]*warehouse.Warehouse

	receipts     map[string]*purchase_receipt.PurchaseReceipt
	inspections  map[string]*quality_inspection.QualityInspection
	stockEntries map[string]*stock_entry.StockEntry

	movements []entity.StockMovement
	ledger    []milkquality.LedgerEntry
	sequences map[string]int64
	audit     []documents.AuditRecord
}

func newState() *state {
	return &state{
		items:        make(map[string]*item.Item),
		itemGroups:   make(map[string]*itemgroup.ItemGroup),
		suppliers:    make(map[string]*supplier.Supplier),
		milkTypes:    make(map[string]*milktype.MilkType),
		warehouses:   make(map[string]*warehouse.Warehouse),
		receipts:     make(map[string]*purchase_receipt.PurchaseReceipt),
		inspections:  make(map[string]*quality_inspection.QualityInspection),
		stockEntries: make(map[string]*stock_entry.StockEntry),
		sequences:    make(map[string]int64),
	}
}

func (s *state) clone() *state {
	return &state{
		items:        cloneMap(s.items, cloneItem),
		itemGroups:   cloneMap(s.itemGroups, cloneItemGroup),
		suppliers:    cloneMap(s.suppliers, cloneSupplier),
		milkTypes:    cloneMap(s.milkTypes, cloneMilkType),
		warehouses:   cloneMap(s.warehouses, cloneWarehouse),
		receipts:     cloneMap(s.receipts, cloneReceipt),
		inspections:  cloneMap(s.inspections, cloneInspection),
		stockEntries: cloneMap(s.stockEntries, cloneStockEntry),
		movements:    slices.Clone(s.movements),
		ledger:       slices.Clone(s.ledger),
		sequences:    cloneMap(s.sequences, func(v int64) int64 { return v }),
		audit:        slices.Clone(s.audit),
	}
}

func cloneMap[T any](m map[string]T, c func(T) T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = c(v)
	}
	return out
}

// Store is the in-memory database.
type Store struct {
	// mu guards state; txMu serializes transactions.
	mu    sync.RWMutex
	txMu  sync.Mutex
	state *state
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

// RunInTransaction implements tx.Manager. Transactions are serialized; a
// failing or panicking function restores the state it started from.
// A nested call joins the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			logger.Error(ctx, "transaction panic, rolled back", "panic", p)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
			logger.Debug(ctx, "transaction rolled back", "error", err)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	return nil
}

func (s *Store) restore(snapshot *state) {
	s.mu.Lock()
	s.state = snapshot
	s.mu.Unlock()
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Stats reports row counts, for health output.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"items":               len(s.state.items),
		"item_groups":         len(s.state.itemGroups),
		"suppliers":           len(s.state.suppliers),
		"milk_types":          len(s.state.milkTypes),
		"warehouses":          len(s.state.warehouses),
		"purchase_receipts":   len(s.state.receipts),
		"quality_inspections": len(s.state.inspections),
		"stock_entries":       len(s.state.stockEntries),
		"stock_movements":     len(s.state.movements),
		"ledger_entries":      len(s.state.ledger),
	}
}

// Ping implements the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.read(func(st *state) error {
		if st == nil {
			return fmt.Errorf("memory store not initialised")
		}
		return nil
	})
}
