// Package reports provides report generation services.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/id"
)

// --- Milk Quality Ledger Report ---

// MilkQualityLedgerFilter defines filter for the milk quality ledger report.
type MilkQualityLedgerFilter struct {
	// Period (required, inclusive)
	FromDate time.Time
	ToDate   time.Time

	// Filters
	ItemCodes   []string
	Warehouses  []string
	VoucherType string
	VoucherNo   string
	BatchNo     string

	// IncludeUOM shows the item's stock unit instead of the entry unit.
	IncludeUOM bool
}

// MilkQualityLedgerRow is one non-cancelled ledger entry.
type MilkQualityLedgerRow struct {
	Name        string    `db:"name" json:"name"`
	PostingDate time.Time `db:"posting_date" json:"postingDate"`
	PostingTime string    `db:"posting_time" json:"postingTime"`

	ItemCode  string `db:"item_code" json:"itemCode"`
	ItemName  string `db:"item_name" json:"itemName"`
	Warehouse string `db:"warehouse" json:"warehouse"`
	BatchNo   string `db:"batch_no" json:"batchNo,omitempty"`

	VoucherType string `db:"voucher_type" json:"voucherType"`
	VoucherNo   string `db:"voucher_no" json:"voucherNo"`

	UOM     string `db:"uom" json:"uom"`
	ItemUOM string `db:"item_stock_uom" json:"-"`

	FatPercent decimal.Decimal `db:"fat_per" json:"fatPer"`
	SNFPercent decimal.Decimal `db:"snf_per" json:"snfPer"`
	Fat        decimal.Decimal `db:"fat" json:"fat"`
	SNF        decimal.Decimal `db:"snf" json:"snf"`

	QtyInLitre      decimal.Decimal `db:"qty_in_liter" json:"qtyInLiter"`
	QtyInKg         decimal.Decimal `db:"qty_in_kg" json:"qtyInKg"`
	QtyAfterInLitre decimal.Decimal `db:"qty_after_transaction_in_liter" json:"qtyAfterTransactionInLiter"`
	QtyAfterInKg    decimal.Decimal `db:"qty_after_transaction_in_kg" json:"qtyAfterTransactionInKg"`

	CreatedAt time.Time `db:"created_at" json:"-"`
}

// MilkQualityLedger represents the full report.
type MilkQualityLedger struct {
	FromDate time.Time              `json:"fromDate"`
	ToDate   time.Time              `json:"toDate"`
	Rows     []MilkQualityLedgerRow `json:"rows"`

	// Summary
	TotalQtyInKg decimal.Decimal `json:"totalQtyInKg"`
	TotalFat     decimal.Decimal `json:"totalFat"`
	TotalSNF     decimal.Decimal `json:"totalSnf"`
}

// --- Stock Balance Report ---

// StockBalanceReportFilter defines filter for stock balance report.
type StockBalanceReportFilter struct {
	// AsOfDate - report date (defaults to now)
	AsOfDate *time.Time

	ItemCodes  []string
	Warehouses []string

	// Exclude zero balances
	ExcludeZero bool
}

// StockBalanceReportItem represents a single row in stock balance report.
type StockBalanceReportItem struct {
	ItemCode  string          `db:"item_code" json:"itemCode"`
	ItemName  string          `db:"item_name" json:"itemName"`
	Warehouse string          `db:"warehouse" json:"warehouse"`
	StockUOM  string          `db:"stock_uom" json:"stockUom"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
}

// StockBalanceReport represents the full stock balance report.
type StockBalanceReport struct {
	AsOfDate      time.Time                `json:"asOfDate"`
	Items         []StockBalanceReportItem `json:"items"`
	TotalItems    int                      `json:"totalItems"`
	TotalQuantity decimal.Decimal          `json:"totalQuantity"`
}

// --- Raw Milk Testing Report ---

// RawMilkParameters are the reading columns of the raw milk testing report,
// in display order.
var RawMilkParameters = []string{
	"Temp", "Fat", "LR", "SNF", "Alcohol", "Acidity", "Ammonia", "MBRT",
	"Sucrose", "Starch", "Neutralizer", "Detergent", "Urea", "Maltose",
	"BR", "RM", "Wash RM", "Channa",
}

// RawMilkTestingFilter defines filter for the raw milk testing report.
type RawMilkTestingFilter struct {
	// Report date range (required, inclusive)
	FromDate time.Time
	ToDate   time.Time

	QualityInspection string
	PurchaseReceipt   string
	Supplier          string
}

// RawMilkReading is one reading of a tested sample.
type RawMilkReading struct {
	Specification string          `db:"specification"`
	Numeric       bool            `db:"is_numeric"`
	Value         decimal.Decimal `db:"reading_1"`
	ReadingValue  string          `db:"reading_value"`
}

// RawMilkTestingRow is one submitted inspection with its receipt details.
type RawMilkTestingRow struct {
	ID                id.ID     `db:"id" json:"-"`
	QualityInspection string    `db:"name" json:"qualityInspection"`
	ReportDate        time.Time `db:"posting_date" json:"reportDate"`

	PurchaseReceipt string          `db:"purchase_receipt" json:"purchaseReceipt,omitempty"`
	TankerNo        string          `db:"tanker_no" json:"tankerNo,omitempty"`
	Supplier        string          `db:"supplier" json:"supplier,omitempty"`
	SupplierName    string          `db:"supplier_name" json:"supplierName,omitempty"`
	NetWeight       decimal.Decimal `db:"net_weight" json:"netWeight"`

	InTime    string `db:"in_time" json:"inTime"`
	OutTime   string `db:"out_time" json:"outTime"`
	MBRTStart string `db:"mbrt_start_time" json:"mbrtStartTime"`
	MBRTEnd   string `db:"mbrt_end_time" json:"mbrtEndTime"`
	MBRTTotal string `db:"mbrt_total_time" json:"mbrtTotalTime"`
	Remarks   string `db:"remarks" json:"remarks"`

	Readings []RawMilkReading `db:"-" json:"-"`

	// Parameters maps each RawMilkParameters column to its reading.
	Parameters map[string]string `db:"-" json:"parameters"`
}

// RawMilkTesting represents the full report.
type RawMilkTesting struct {
	FromDate   time.Time           `json:"fromDate"`
	ToDate     time.Time           `json:"toDate"`
	Parameters []string            `json:"parameters"`
	Rows       []RawMilkTestingRow `json:"rows"`
}
