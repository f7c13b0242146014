package composition

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy selects where a movement's composition comes from.
type Policy int

const (
	// PolicyNone leaves composition at zero.
	PolicyNone Policy = iota
	// PolicyDirectReading reads the inspection attached to the line.
	PolicyDirectReading
	// PolicyCarryForward reuses the latest submitted ledger entry for the item and warehouse.
	PolicyCarryForward
)

func (p Policy) String() string {
	switch p {
	case PolicyDirectReading:
		return "direct-reading"
	case PolicyCarryForward:
		return "carry-forward"
	default:
		return "none"
	}
}

// InspectionReader returns the current readings of an inspection, regardless
// of the inspection's own lifecycle state.
type InspectionReader interface {
	GetReadings(ctx context.Context, inspectionName string) ([]Reading, error)
}

// LastKnownSource returns the percentages of the latest submitted, non-cancelled
// ledger entry for an item in a warehouse.
type LastKnownSource interface {
	LastKnownPercent(ctx context.Context, itemCode, warehouse string) (fat, snf decimal.Decimal, found bool, err error)
}

// Resolver applies composition policies.
type Resolver struct {
	inspections InspectionReader
	ledger      LastKnownSource
}

// NewResolver creates a Resolver.
func NewResolver(inspections InspectionReader, ledger LastKnownSource) *Resolver {
	return &Resolver{inspections: inspections, ledger: ledger}
}

// FromInspection reads the inspection afresh. An empty name yields zeros.
func (r *Resolver) FromInspection(ctx context.Context, inspectionName string, qty decimal.Decimal) (Values, error) {
	if inspectionName == "" {
		return FromPercent(decimal.Zero, decimal.Zero, qty), nil
	}
	readings, err := r.inspections.GetReadings(ctx, inspectionName)
	if err != nil {
		return Values{}, fmt.Errorf("read inspection %s: %w", inspectionName, err)
	}
	fat, snf := ExtractReadings(readings)
	return FromPercent(fat, snf, qty), nil
}

// LastKnown carries the latest composition forward. No history yields zeros.
func (r *Resolver) LastKnown(ctx context.Context, itemCode, warehouse string, qty decimal.Decimal) (Values, error) {
	fat, snf, _, err := r.ledger.LastKnownPercent(ctx, itemCode, warehouse)
	if err != nil {
		return Values{}, fmt.Errorf("last known composition for %s in %s: %w", itemCode, warehouse, err)
	}
	return FromPercent(fat, snf, qty), nil
}

// Request describes one composition lookup.
type Request struct {
	Policy    Policy
	ItemCode  string
	Warehouse string
	Qty       decimal.Decimal

	// Inspection names the linked inspection for PolicyDirectReading.
	Inspection string
	// Readings, when present, are used instead of loading Inspection.
	Readings []Reading
}

// Resolve dispatches on the request's policy.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Values, error) {
	switch req.Policy {
	case PolicyDirectReading:
		if len(req.Readings) > 0 {
			fat, snf := ExtractReadings(req.Readings)
			return FromPercent(fat, snf, req.Qty), nil
		}
		return r.FromInspection(ctx, req.Inspection, req.Qty)
	case PolicyCarryForward:
		return r.LastKnown(ctx, req.ItemCode, req.Warehouse, req.Qty)
	default:
		return FromPercent(decimal.Zero, decimal.Zero, req.Qty), nil
	}
}
