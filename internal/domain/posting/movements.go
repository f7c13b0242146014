// Package posting turns a document's lifecycle transitions into register
// effects: stock movements first, then milk quality ledger entries, all in
// one transaction and under per-(item, warehouse) locks.
package posting

import (
	"context"
	"time"

	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/core/lock"
	"milkledger/internal/domain/registers/milkquality"
)

// Postable is a document that can be submitted and cancelled.
// GetID, VoucherNo, Posting, CanPost, ResolvePostingTime, GetStatus and
// Transition come from entity.Document.
type Postable interface {
	GetID() id.ID
	VoucherType() string
	VoucherNo() string
	GetStatus() entity.DocStatus
	Posting() (date time.Time, clock string)
	CanPost(ctx context.Context) error
	ResolvePostingTime(now time.Time) (time.Time, error)
	Transition(next entity.DocStatus, now time.Time, actor string) error

	// GenerateMovements lists the register effects of submitting the document.
	GenerateMovements(ctx context.Context, postingAt, now time.Time) (*MovementSet, error)
}

// MovementSet collects the effects of one document.
type MovementSet struct {
	Stock  []entity.StockMovement
	Ledger []milkquality.Line
}

// NewMovementSet creates an empty set.
func NewMovementSet() *MovementSet {
	return &MovementSet{}
}

// AddStock appends a stock movement.
func (s *MovementSet) AddStock(m entity.StockMovement) {
	s.Stock = append(s.Stock, m)
}

// AddLedger appends a qualifying ledger line.
func (s *MovementSet) AddLedger(l milkquality.Line) {
	s.Ledger = append(s.Ledger, l)
}

// IsEmpty reports whether the document has no register effects.
func (s *MovementSet) IsEmpty() bool {
	return len(s.Stock) == 0 && len(s.Ledger) == 0
}

// LockKeys returns every (item, warehouse) the set touches.
func (s *MovementSet) LockKeys() []string {
	keys := make([]string, 0, len(s.Stock)+len(s.Ledger))
	for _, m := range s.Stock {
		keys = append(keys, lock.StockKey(m.ItemCode, m.Warehouse))
	}
	for _, l := range s.Ledger {
		if w := l.Warehouse(); w != "" && l.ItemCode != "" {
			keys = append(keys, lock.StockKey(l.ItemCode, w))
		}
	}
	return lock.Normalize(keys)
}
