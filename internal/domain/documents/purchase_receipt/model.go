// Package purchase_receipt provides the Purchase Receipt document: milk and
// other goods received from a supplier into warehouses.
package purchase_receipt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/posting"
	"milkledger/internal/domain/pricing"
	"milkledger/internal/domain/registers/milkquality"
)

// PurchaseReceipt records goods received from a supplier.
type PurchaseReceipt struct {
	entity.Document

	Supplier string `db:"supplier" json:"supplier"`

	// NetWeight is the weighbridge net weight in kg; when set it is the
	// pricing weight of every milk line.
	NetWeight decimal.Decimal `db:"net_weight" json:"netWeight"`

	TankerNo string `db:"tanker_no" json:"tankerNo,omitempty"`

	// Totals (calculated from lines)
	TotalQty    decimal.Decimal `db:"total_qty" json:"totalQty"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`

	Items []Line `db:"-" json:"items"`
}

// Line is one received item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemCode  string `db:"item_code" json:"itemCode"`
	ItemName  string `db:"item_name" json:"itemName,omitempty"`
	Warehouse string `db:"warehouse" json:"warehouse"`

	// Qty is in UOM; StockQty = Qty × ConversionFactor is in StockUOM.
	Qty              decimal.Decimal `db:"qty" json:"qty"`
	UOM              string          `db:"uom" json:"uom,omitempty"`
	ConversionFactor decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`
	StockQty         decimal.Decimal `db:"stock_qty" json:"stockQty"`
	StockUOM         string          `db:"stock_uom" json:"stockUom,omitempty"`

	IsMilkType        bool   `db:"is_milk_type" json:"isMilkType"`
	MilkType          string `db:"milk_type" json:"milkType,omitempty"`
	QualityInspection string `db:"quality_inspection" json:"qualityInspection,omitempty"`

	BatchNo  string                    `db:"batch_no" json:"batchNo,omitempty"`
	SerialNo string                    `db:"serial_no" json:"serialNo,omitempty"`
	Bundle   []milkquality.BundleEntry `db:"-" json:"bundle,omitempty"`

	Fat   decimal.Decimal `db:"fat" json:"fat"`
	SNF   decimal.Decimal `db:"snf" json:"snf"`
	FatKg decimal.Decimal `db:"fat_kg" json:"fatKg"`
	SNFKg decimal.Decimal `db:"snf_kg" json:"snfKg"`

	Rate   decimal.Decimal `db:"rate" json:"rate"`
	Amount decimal.Decimal `db:"amount" json:"amount"`

	pricing.LinePrice
}

// NewPurchaseReceipt creates a draft receipt from supplier.
func NewPurchaseReceipt(supplier string) *PurchaseReceipt {
	return &PurchaseReceipt{
		Supplier: supplier,
		Items:    make([]Line, 0),
	}
}

// AddLine appends a line and returns it for further setup.
func (p *PurchaseReceipt) AddLine(itemCode, warehouse string, qty decimal.Decimal) *Line {
	p.Items = append(p.Items, Line{
		LineID:           id.New(),
		LineNo:           len(p.Items) + 1,
		ItemCode:         itemCode,
		Warehouse:        warehouse,
		Qty:              qty,
		ConversionFactor: decimal.NewFromInt(1),
		StockQty:         qty,
	})
	return &p.Items[len(p.Items)-1]
}

// Renumber assigns line numbers and missing line ids.
func (p *PurchaseReceipt) Renumber() {
	for i := range p.Items {
		p.Items[i].LineNo = i + 1
		if id.IsNil(p.Items[i].LineID) {
			p.Items[i].LineID = id.New()
		}
	}
}

// RecalculateTotals updates document totals from lines.
func (p *PurchaseReceipt) RecalculateTotals() {
	p.TotalQty = decimal.Zero
	p.TotalAmount = decimal.Zero
	for _, line := range p.Items {
		p.TotalQty = p.TotalQty.Add(line.Qty)
		p.TotalAmount = p.TotalAmount.Add(line.Amount)
	}
}

// SetComposition stores composition values on the line, masses rounded.
func (l *Line) SetComposition(v composition.Values) {
	l.Fat = v.FatPercent
	l.SNF = v.SNFPercent
	l.FatKg = types.RoundQty(v.FatMass)
	l.SNFKg = types.RoundQty(v.SNFMass)
}

// Validate implements entity.Validatable.
func (p *PurchaseReceipt) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if p.Supplier == "" {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplier")
	}
	if p.NetWeight.IsNegative() {
		return apperror.NewValidation("net weight cannot be negative").
			WithDetail("field", "netWeight")
	}
	if len(p.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, line := range p.Items {
		if line.ItemCode == "" {
			return apperror.NewValidation("item is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if !line.Qty.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- Postable interface implementation ---

// VoucherType returns the ledger voucher type.
func (p *PurchaseReceipt) VoucherType() string {
	return milkquality.VoucherPurchaseReceipt
}

// GenerateMovements receives every line into its warehouse; milk lines are
// also written to the quality ledger using the attached inspection.
func (p *PurchaseReceipt) GenerateMovements(ctx context.Context, postingAt, now time.Time) (*posting.MovementSet, error) {
	movements := posting.NewMovementSet()

	for _, line := range p.Items {
		if line.ItemCode == "" {
			return nil, apperror.NewInvalidLine(line.LineNo, "item")
		}
		if line.Warehouse == "" {
			return nil, apperror.NewInvalidLine(line.LineNo, "warehouse")
		}
		qty := documents.StockQty(line.Qty, line.ConversionFactor)
		movements.AddStock(entity.NewStockMovement(
			p.ID,
			p.VoucherType(),
			postingAt,
			entity.RecordTypeReceipt,
			line.Warehouse,
			line.ItemCode,
			types.NewQuantityFromDecimal(qty),
			now,
		))

		if !line.IsMilkType {
			continue
		}
		movements.AddLedger(milkquality.Line{
			LineNo:          line.LineNo,
			DetailNo:        line.LineID.String(),
			ItemCode:        line.ItemCode,
			ItemName:        line.ItemName,
			TargetWarehouse: line.Warehouse,
			BatchNo:         line.BatchNo,
			Bundle:          line.Bundle,
			SerialNo:        line.SerialNo,
			Qty:             qty,
			Direction:       milkquality.DirectionIncoming,
			Policy:          composition.PolicyDirectReading,
			Inspection:      line.QualityInspection,
		})
	}

	return movements, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*PurchaseReceipt)(nil)
