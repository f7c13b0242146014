// Package milkquality provides the Milk Quality Ledger: one immutable entry per
// qualifying milk movement, carrying volume, mass, fat and SNF.
package milkquality

import (
	"time"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/core/types"
)

// Voucher types that produce ledger entries.
const (
	VoucherPurchaseReceipt   = "Purchase Receipt"
	VoucherStockEntry        = "Stock Entry"
	VoucherQualityInspection = "Quality Inspection"
)

// Direction tells how a movement relates to the balance.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
	// DirectionSnapshot records composition over the current balance without moving stock.
	DirectionSnapshot Direction = "snapshot"
)

// LedgerEntry is one Milk Quality Ledger Entry. Once submitted only the
// cancellation fields ever change.
type LedgerEntry struct {
	ID     id.ID            `db:"id" json:"id"`
	Name   string           `db:"name" json:"name"`
	Status entity.DocStatus `db:"docstatus" json:"docstatus"`

	IsCancelled bool `db:"is_cancelled" json:"isCancelled"`

	ItemCode  string `db:"item_code" json:"itemCode"`
	ItemName  string `db:"item_name" json:"itemName"`
	Warehouse string `db:"warehouse" json:"warehouse"`
	BatchNo   string `db:"batch_no" json:"batchNo,omitempty"`
	SerialNo  string `db:"serial_no" json:"serialNo,omitempty"`

	VoucherType     string `db:"voucher_type" json:"voucherType"`
	VoucherNo       string `db:"voucher_no" json:"voucherNo"`
	VoucherDetailNo string `db:"voucher_detail_no" json:"voucherDetailNo,omitempty"`

	PostingDate time.Time `db:"posting_date" json:"postingDate"`
	PostingTime string    `db:"posting_time" json:"postingTime"`

	Direction Direction `db:"direction" json:"direction"`

	// StockUOM is the mass unit of record, UOM the volume unit.
	StockUOM string `db:"stock_uom" json:"stockUom"`
	UOM      string `db:"uom" json:"uom"`

	FatPercent decimal.Decimal `db:"fat_per" json:"fatPer"`
	SNFPercent decimal.Decimal `db:"snf_per" json:"snfPer"`
	Fat        decimal.Decimal `db:"fat" json:"fat"`
	SNF        decimal.Decimal `db:"snf" json:"snf"`

	// Movement magnitude.
	QtyInLitre decimal.Decimal `db:"qty_in_liter" json:"qtyInLiter"`
	QtyInKg    decimal.Decimal `db:"qty_in_kg" json:"qtyInKg"`

	// Balance snapshot after this movement.
	QtyAfterInLitre decimal.Decimal `db:"qty_after_transaction_in_liter" json:"qtyAfterTransactionInLiter"`
	QtyAfterInKg    decimal.Decimal `db:"qty_after_transaction_in_kg" json:"qtyAfterTransactionInKg"`

	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	CreatedBy   string     `db:"created_by" json:"createdBy"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`
	CancelledBy string     `db:"cancelled_by" json:"cancelledBy,omitempty"`
}

// PostingAt combines posting date and time for ordering.
func (e *LedgerEntry) PostingAt() time.Time {
	at, err := types.CombineDateTime(e.PostingDate, e.PostingTime)
	if err != nil {
		return types.DateOnly(e.PostingDate)
	}
	return at
}

// Voucher identifies the source document being posted.
type Voucher struct {
	Type        string
	No          string
	PostingDate time.Time
	PostingTime string
}

// BundleEntry is one row of a serial-and-batch bundle.
type BundleEntry struct {
	BatchNo  string          `json:"batchNo,omitempty"`
	SerialNo string          `json:"serialNo,omitempty"`
	Qty      decimal.Decimal `json:"qty"`
}

// FirstBatch returns the first non-empty batch of a bundle.
func FirstBatch(bundle []BundleEntry) string {
	for _, b := range bundle {
		if b.BatchNo != "" {
			return b.BatchNo
		}
	}
	return ""
}
