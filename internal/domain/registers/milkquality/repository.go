package milkquality

import (
	"context"
	"time"

	"milkledger/internal/core/id"
)

// Repository persists ledger entries.
type Repository interface {
	// Create inserts one submitted entry.
	Create(ctx context.Context, entry *LedgerEntry) error

	// ListByVoucher returns every entry of a voucher in creation order.
	ListByVoucher(ctx context.Context, voucherType, voucherNo string) ([]LedgerEntry, error)

	// MarkCancelled flags the given submitted entries as cancelled and
	// returns how many rows changed.
	MarkCancelled(ctx context.Context, ids []id.ID, at time.Time, by string) (int, error)

	// LastSubmitted returns the most recently created submitted, non-cancelled
	// entry for the item and warehouse, or nil when there is none.
	LastSubmitted(ctx context.Context, itemCode, warehouse string) (*LedgerEntry, error)

	// List returns entries matching filter ordered by posting date, posting
	// time and creation.
	List(ctx context.Context, filter ListFilter) ([]LedgerEntry, error)
}

// ListFilter narrows ledger queries. Zero values mean "any".
type ListFilter struct {
	FromDate time.Time
	ToDate   time.Time

	ItemCode    string
	Warehouse   string
	VoucherType string
	VoucherNo   string
	BatchNo     string

	IncludeCancelled bool
}
