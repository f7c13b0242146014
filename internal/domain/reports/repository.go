package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// GetMilkQualityLedger returns non-cancelled entries ordered by posting
	// date, posting time and creation.
	GetMilkQualityLedger(ctx context.Context, filter MilkQualityLedgerFilter) ([]MilkQualityLedgerRow, error)

	// GetRawMilkTesting returns submitted inspections of the period with
	// their readings, ordered by report date and name.
	GetRawMilkTesting(ctx context.Context, filter RawMilkTestingFilter) ([]RawMilkTestingRow, error)

	GetStockBalanceReport(ctx context.Context, filter StockBalanceReportFilter) (*StockBalanceReport, error)
}
