// Package quality_inspection provides the Quality Inspection document: the
// fat, SNF and other readings taken on a sample of milk.
package quality_inspection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/posting"
	"milkledger/internal/domain/registers/milkquality"
)

// InspectionType tells at which stage the sample was taken.
type InspectionType string

const (
	TypeIncoming  InspectionType = "Incoming"
	TypeInProcess InspectionType = "In Process"
	TypeOutgoing  InspectionType = "Outgoing"
	// TypeInternal is a tank check; only these write ledger entries.
	TypeInternal InspectionType = "Internal"
)

// IsValid reports whether t is a known inspection type.
func (t InspectionType) IsValid() bool {
	switch t {
	case TypeIncoming, TypeInProcess, TypeOutgoing, TypeInternal:
		return true
	}
	return false
}

// Reading statuses.
const (
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// QualityInspection records readings on a sample.
type QualityInspection struct {
	entity.Document

	InspectionType InspectionType `db:"inspection_type" json:"inspectionType"`

	// Reference to the document the sample belongs to, if any.
	ReferenceType string `db:"reference_type" json:"referenceType,omitempty"`
	ReferenceName string `db:"reference_name" json:"referenceName,omitempty"`
	ReferenceLine string `db:"reference_line" json:"referenceLine,omitempty"`

	ItemCode  string `db:"item_code" json:"itemCode"`
	ItemName  string `db:"item_name" json:"itemName,omitempty"`
	Warehouse string `db:"warehouse" json:"warehouse,omitempty"`
	BatchNo   string `db:"batch_no" json:"batchNo,omitempty"`
	SerialNo  string `db:"serial_no" json:"serialNo,omitempty"`

	SampleSize  decimal.Decimal `db:"sample_size" json:"sampleSize"`
	InspectedBy string          `db:"inspected_by" json:"inspectedBy,omitempty"`

	// Lab timing, HH:MM or HH:MM:SS.
	InTime    string `db:"in_time" json:"inTime,omitempty"`
	OutTime   string `db:"out_time" json:"outTime,omitempty"`
	MBRTStart string `db:"mbrt_start_time" json:"mbrtStartTime,omitempty"`
	MBRTEnd   string `db:"mbrt_end_time" json:"mbrtEndTime,omitempty"`
	MBRTTotal string `db:"mbrt_total_time" json:"mbrtTotalTime,omitempty"`

	Readings []Reading `db:"-" json:"readings"`
}

// Reading is one measured parameter.
type Reading struct {
	Specification string          `db:"specification" json:"specification"`
	Numeric       bool            `db:"is_numeric" json:"numeric"`
	Value         decimal.Decimal `db:"reading_1" json:"reading1"`

	// ReadingValue is the display value of a non-numeric reading.
	ReadingValue string `db:"reading_value" json:"readingValue,omitempty"`
	Status       string `db:"status" json:"status,omitempty"`
}

// NewQualityInspection creates a draft inspection of itemCode.
func NewQualityInspection(inspectionType InspectionType, itemCode string) *QualityInspection {
	return &QualityInspection{
		InspectionType: inspectionType,
		ItemCode:       itemCode,
		Readings:       make([]Reading, 0),
	}
}

// AddReading appends a numeric reading.
func (q *QualityInspection) AddReading(specification string, value decimal.Decimal) {
	q.Readings = append(q.Readings, Reading{
		Specification: specification,
		Numeric:       true,
		Value:         value,
		Status:        StatusAccepted,
	})
}

// NormalizeReadings sets the display value of non-numeric readings from
// their status and clears it on numeric ones.
func (q *QualityInspection) NormalizeReadings() {
	for i := range q.Readings {
		r := &q.Readings[i]
		if r.Numeric {
			r.ReadingValue = ""
			continue
		}
		switch r.Status {
		case StatusAccepted:
			r.ReadingValue = "Ok"
		case StatusRejected:
			r.ReadingValue = "Not Ok"
		}
	}
}

// DeriveMBRTTotal sets the methylene blue reduction time from its start and
// end. An end before the start is taken to fall on the next day.
func (q *QualityInspection) DeriveMBRTTotal() {
	if q.MBRTStart == "" || q.MBRTEnd == "" {
		return
	}
	start, err := types.ParseClock(q.MBRTStart)
	if err != nil {
		return
	}
	end, err := types.ParseClock(q.MBRTEnd)
	if err != nil {
		return
	}
	total := end - start
	if total < 0 {
		total += 24 * time.Hour
	}
	q.MBRTTotal = fmt.Sprintf("%02d:%02d", int(total.Hours()), int(total.Minutes())%60)
}

// CompositionReadings returns the numeric readings in entry order.
func (q *QualityInspection) CompositionReadings() []composition.Reading {
	out := make([]composition.Reading, 0, len(q.Readings))
	for _, r := range q.Readings {
		if !r.Numeric {
			continue
		}
		out = append(out, composition.Reading{Specification: r.Specification, Value: r.Value})
	}
	return out
}

// Validate implements entity.Validatable.
func (q *QualityInspection) Validate(ctx context.Context) error {
	if err := q.Document.Validate(ctx); err != nil {
		return err
	}
	if !q.InspectionType.IsValid() {
		return apperror.NewValidation("unknown inspection type").
			WithDetail("field", "inspectionType").
			WithDetail("value", string(q.InspectionType))
	}
	if q.ItemCode == "" {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemCode")
	}
	if q.SampleSize.IsNegative() {
		return apperror.NewValidation("sample size cannot be negative").
			WithDetail("field", "sampleSize")
	}
	for field, v := range map[string]string{
		"inTime":        q.InTime,
		"outTime":       q.OutTime,
		"mbrtStartTime": q.MBRTStart,
		"mbrtEndTime":   q.MBRTEnd,
	} {
		if v == "" {
			continue
		}
		if _, err := types.ParseClock(v); err != nil {
			return apperror.NewValidation("invalid time of day").
				WithDetail("field", field).
				WithDetail("value", v)
		}
	}
	for i, r := range q.Readings {
		if strings.TrimSpace(r.Specification) == "" {
			return apperror.NewValidation("specification is required").
				WithDetail("field", "readings").
				WithDetail("row", i+1)
		}
	}
	return nil
}

// --- Postable interface implementation ---

// VoucherType returns the ledger voucher type.
func (q *QualityInspection) VoucherType() string {
	return milkquality.VoucherQualityInspection
}

// GenerateMovements records an Internal inspection as a composition snapshot
// over the current balance. Other types have no register effect.
func (q *QualityInspection) GenerateMovements(ctx context.Context, postingAt, now time.Time) (*posting.MovementSet, error) {
	movements := posting.NewMovementSet()
	if q.InspectionType != TypeInternal {
		return movements, nil
	}

	movements.AddLedger(milkquality.Line{
		LineNo:          1,
		ItemCode:        q.ItemCode,
		ItemName:        q.ItemName,
		TargetWarehouse: q.Warehouse,
		BatchNo:         q.BatchNo,
		SerialNo:        q.SerialNo,
		Direction:       milkquality.DirectionSnapshot,
		Policy:          composition.PolicyDirectReading,
		Inspection:      q.Name,
		Readings:        q.CompositionReadings(),
	})
	return movements, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*QualityInspection)(nil)
