// Package stock provides the stock accumulation register: signed mass
// movements per item and warehouse, and as-of balances over them.
package stock

import (
	"context"
	"time"

	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/core/types"
)

// Repository defines operations for the stock register.
type Repository interface {
	// CreateMovements batch inserts movements (used during submission)
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// DeleteMovementsByRecorder removes all movements of a document (used during cancellation)
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error

	// GetMovementsByRecorder retrieves all movements for a document
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// GetBalanceAt sums movements with period <= at
	GetBalanceAt(ctx context.Context, itemCode, warehouse string, at time.Time) (types.Quantity, error)

	// GetBalances returns current balances, optionally narrowed by filter
	GetBalances(ctx context.Context, filter BalanceFilter) ([]Balance, error)
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ItemCode    string
	Warehouse   string
	ExcludeZero bool
}

// Balance is the current quantity of one item in one warehouse.
type Balance struct {
	ItemCode  string         `db:"item_code" json:"itemCode"`
	Warehouse string         `db:"warehouse" json:"warehouse"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
}
