// Package stock_entry provides the Stock Entry document: manufacture,
// issue, receipt and transfer of stock between warehouses.
package stock_entry

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
	"milkledger/internal/domain/registers/milkquality"
)

// Purpose is the kind of stock movement.
type Purpose string

const (
	PurposeManufacture      Purpose = "Manufacture"
	PurposeMaterialIssue    Purpose = "Material Issue"
	PurposeMaterialReceipt  Purpose = "Material Receipt"
	PurposeMaterialTransfer Purpose = "Material Transfer"
)

// IsValid reports whether p is a known purpose.
func (p Purpose) IsValid() bool {
	switch p {
	case PurposeManufacture, PurposeMaterialIssue, PurposeMaterialReceipt, PurposeMaterialTransfer:
		return true
	}
	return false
}

// StockEntry moves stock out of and into warehouses.
type StockEntry struct {
	entity.Document

	Purpose Purpose `db:"purpose" json:"purpose"`

	// WorkOrder and BOM are references only.
	WorkOrder string `db:"work_order" json:"workOrder,omitempty"`
	BOM       string `db:"bom_no" json:"bomNo,omitempty"`

	Items []Line `db:"-" json:"items"`
}

// Line is one item moved.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemCode string `db:"item_code" json:"itemCode"`
	ItemName string `db:"item_name" json:"itemName,omitempty"`

	SourceWarehouse string `db:"s_warehouse" json:"sourceWarehouse,omitempty"`
	TargetWarehouse string `db:"t_warehouse" json:"targetWarehouse,omitempty"`

	Qty              decimal.Decimal `db:"qty" json:"qty"`
	UOM              string          `db:"uom" json:"uom,omitempty"`
	ConversionFactor decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`
	StockQty         decimal.Decimal `db:"stock_qty" json:"stockQty"`
	StockUOM         string          `db:"stock_uom" json:"stockUom,omitempty"`

	// IsFinishedItem marks the manufactured output of a Manufacture entry.
	IsFinishedItem    bool   `db:"is_finished_item" json:"isFinishedItem"`
	IsMilkType        bool   `db:"is_milk_type" json:"isMilkType"`
	QualityInspection string `db:"quality_inspection" json:"qualityInspection,omitempty"`

	BatchNo  string                    `db:"batch_no" json:"batchNo,omitempty"`
	SerialNo string                    `db:"serial_no" json:"serialNo,omitempty"`
	Bundle   []milkquality.BundleEntry `db:"-" json:"bundle,omitempty"`

	Fat   decimal.Decimal `db:"fat" json:"fat"`
	SNF   decimal.Decimal `db:"snf" json:"snf"`
	FatKg decimal.Decimal `db:"fat_kg" json:"fatKg"`
	SNFKg decimal.Decimal `db:"snf_kg" json:"snfKg"`
}

// NewStockEntry creates a draft entry with purpose.
func NewStockEntry(purpose Purpose) *StockEntry {
	return &StockEntry{
		Purpose: purpose,
		Items:   make([]Line, 0),
	}
}

// AddLine appends a line and returns it for further setup.
func (s *StockEntry) AddLine(itemCode, source, target string, qty decimal.Decimal) *Line {
	s.Items = append(s.Items, Line{
		LineID:           id.New(),
		LineNo:           len(s.Items) + 1,
		ItemCode:         itemCode,
		SourceWarehouse:  source,
		TargetWarehouse:  target,
		Qty:              qty,
		ConversionFactor: decimal.NewFromInt(1),
		StockQty:         qty,
	})
	return &s.Items[len(s.Items)-1]
}

// Renumber assigns line numbers and missing line ids.
func (s *StockEntry) Renumber() {
	for i := range s.Items {
		s.Items[i].LineNo = i + 1
		if id.IsNil(s.Items[i].LineID) {
			s.Items[i].LineID = id.New()
		}
	}
}

// FindLine returns the line with lineID.
func (s *StockEntry) FindLine(lineID string) (*Line, bool) {
	for i := range s.Items {
		if s.Items[i].LineID.String() == lineID {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// SetComposition stores composition values on the line, masses rounded.
func (l *Line) SetComposition(v composition.Values) {
	l.Fat = v.FatPercent
	l.SNF = v.SNFPercent
	l.FatKg = types.RoundQty(v.FatMass)
	l.SNFKg = types.RoundQty(v.SNFMass)
}

// BlendComponents returns the milk lines matching finished as blend components.
func (s *StockEntry) BlendComponents(finished bool) []composition.Component {
	out := make([]composition.Component, 0, len(s.Items))
	for _, l := range s.Items {
		if !l.IsMilkType || l.IsFinishedItem != finished {
			continue
		}
		out = append(out, composition.Component{
			Qty:        l.StockQty,
			FatPercent: l.Fat,
			SNFPercent: l.SNF,
		})
	}
	return out
}

// Validate implements entity.Validatable.
func (s *StockEntry) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}
	if !s.Purpose.IsValid() {
		return apperror.NewValidation("unknown stock entry purpose").
			WithDetail("field", "purpose").
			WithDetail("value", string(s.Purpose))
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, line := range s.Items {
		lineErr := func(msg string) error {
			return apperror.NewValidation(msg).
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.ItemCode == "" {
			return lineErr("item is required")
		}
		if !line.Qty.IsPositive() {
			return lineErr("quantity must be positive")
		}
		if line.SourceWarehouse != "" && line.SourceWarehouse == line.TargetWarehouse {
			return lineErr("source and target warehouse cannot be the same")
		}

		switch s.Purpose {
		case PurposeMaterialIssue:
			if line.SourceWarehouse == "" {
				return lineErr("source warehouse is required")
			}
		case PurposeMaterialReceipt:
			if line.TargetWarehouse == "" {
				return lineErr("target warehouse is required")
			}
		case PurposeMaterialTransfer:
			if line.SourceWarehouse == "" || line.TargetWarehouse == "" {
				return lineErr("source and target warehouses are required")
			}
		case PurposeManufacture:
			if line.IsFinishedItem && line.TargetWarehouse == "" {
				return lineErr("target warehouse is required for the finished item")
			}
			if !line.IsFinishedItem && line.SourceWarehouse == "" {
				return lineErr("source warehouse is required for raw material")
			}
		}
	}

	if s.Purpose == PurposeManufacture {
		finished := 0
		for _, line := range s.Items {
			if line.IsFinishedItem {
				finished++
			}
		}
		if finished == 0 {
			return apperror.NewValidation("manufacture requires a finished item").
				WithDetail("field", "items")
		}
	}

	return nil
}

// --- Postable interface implementation ---

// VoucherType returns the ledger voucher type.
func (s *StockEntry) VoucherType() string {
	return milkquality.VoucherStockEntry
}

// GenerateMovements moves every line out of its source and into its target.
// Manufacture writes finished milk lines to the ledger from their inspection,
// then raw milk lines carrying the last known composition forward. Material
// issue carries composition forward on every milk line.
func (s *StockEntry) GenerateMovements(ctx context.Context, postingAt, now time.Time) (*posting.MovementSet, error) {
	movements := posting.NewMovementSet()

	for _, line := range s.Items {
		qty := types.NewQuantityFromDecimal(documents.StockQty(line.Qty, line.ConversionFactor))
		if line.SourceWarehouse != "" {
			movements.AddStock(entity.NewStockMovement(
				s.ID, s.VoucherType(), postingAt, entity.RecordTypeExpense,
				line.SourceWarehouse, line.ItemCode, qty, now,
			))
		}
		if line.TargetWarehouse != "" {
			movements.AddStock(entity.NewStockMovement(
				s.ID, s.VoucherType(), postingAt, entity.RecordTypeReceipt,
				line.TargetWarehouse, line.ItemCode, qty, now,
			))
		}
	}

	switch s.Purpose {
	case PurposeManufacture:
		for _, line := range s.Items {
			if line.IsFinishedItem && line.IsMilkType {
				movements.AddLedger(s.ledgerLine(line, milkquality.DirectionIncoming))
			}
		}
		for _, line := range s.Items {
			if !line.IsFinishedItem && line.IsMilkType {
				movements.AddLedger(s.ledgerLine(line, milkquality.DirectionOutgoing))
			}
		}
	case PurposeMaterialIssue:
		for _, line := range s.Items {
			if line.IsMilkType {
				movements.AddLedger(s.ledgerLine(line, milkquality.DirectionOutgoing))
			}
		}
	}

	return movements, nil
}

func (s *StockEntry) ledgerLine(line Line, dir milkquality.Direction) milkquality.Line {
	l := milkquality.Line{
		LineNo:    line.LineNo,
		DetailNo:  line.LineID.String(),
		ItemCode:  line.ItemCode,
		ItemName:  line.ItemName,
		BatchNo:   line.BatchNo,
		Bundle:    line.Bundle,
		SerialNo:  line.SerialNo,
		Qty:       documents.StockQty(line.Qty, line.ConversionFactor),
		Direction: dir,

		// The entry lands in the target warehouse when the line has one.
		TargetWarehouse: line.TargetWarehouse,
		SourceWarehouse: line.SourceWarehouse,
	}
	if dir == milkquality.DirectionIncoming {
		l.Policy = composition.PolicyDirectReading
		l.Inspection = line.QualityInspection
	} else {
		l.Policy = composition.PolicyCarryForward
	}
	return l
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*StockEntry)(nil)
