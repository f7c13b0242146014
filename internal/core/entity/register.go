// Package entity provides core domain entities.
package entity

import (
	"time"

	"milkledger/internal/core/id"
	"milkledger/internal/core/types"
)

// RecordType defines movement direction for the stock register.
type RecordType string

const (
	// RecordTypeReceipt increases balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases balance
	RecordTypeExpense RecordType = "expense"
)

// MovementBase contains common fields for register movements.
// Movements are immutable; cancellation deletes them by recorder.
type MovementBase struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the voucher type (e.g. "Purchase Receipt")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// Period is the posting instant used for as-of balance queries
	Period time.Time `db:"period" json:"period"`

	RecordType RecordType `db:"record_type" json:"recordType"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// StockMovement is one mass change for an item in a warehouse, in the item's stock unit.
type StockMovement struct {
	MovementBase

	Warehouse string `db:"warehouse" json:"warehouse"`
	ItemCode  string `db:"item_code" json:"itemCode"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// NewStockMovement creates a new stock movement.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	period time.Time,
	recordType RecordType,
	warehouse, itemCode string,
	quantity types.Quantity,
	now time.Time,
) StockMovement {
	return StockMovement{
		MovementBase: MovementBase{
			LineID:       id.New(),
			RecorderID:   recorderID,
			RecorderType: recorderType,
			Period:       period,
			RecordType:   recordType,
			CreatedAt:    now,
		},
		Warehouse: warehouse,
		ItemCode:  itemCode,
		Quantity:  quantity,
	}
}

// SignedQuantity returns quantity with sign based on record type.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.RecordType == RecordTypeExpense {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
