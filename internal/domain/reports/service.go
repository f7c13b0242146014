package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo  Repository
	clock types.Clock
}

// NewService creates a new reports service.
func NewService(repo Repository, clock types.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// GetMilkQualityLedger generates the milk quality ledger for a period.
// Figures are rounded to 3 decimals.
func (s *Service) GetMilkQualityLedger(ctx context.Context, filter MilkQualityLedgerFilter) (*MilkQualityLedger, error) {
	if filter.FromDate.IsZero() {
		return nil, apperror.NewMissingInput("from_date")
	}
	if filter.ToDate.IsZero() {
		return nil, apperror.NewMissingInput("to_date")
	}
	filter.FromDate = types.DateOnly(filter.FromDate)
	filter.ToDate = types.DateOnly(filter.ToDate)
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("from date must be before to date").
			WithDetail("fromDate", filter.FromDate.Format(time.DateOnly)).
			WithDetail("toDate", filter.ToDate.Format(time.DateOnly))
	}

	rows, err := s.repo.GetMilkQualityLedger(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get milk quality ledger: %w", err)
	}

	report := &MilkQualityLedger{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Rows:     rows,
	}
	for i := range report.Rows {
		r := &report.Rows[i]
		if filter.IncludeUOM && r.ItemUOM != "" {
			r.UOM = r.ItemUOM
		}
		r.FatPercent = types.RoundQty(r.FatPercent)
		r.SNFPercent = types.RoundQty(r.SNFPercent)
		r.Fat = types.RoundQty(r.Fat)
		r.SNF = types.RoundQty(r.SNF)
		r.QtyInLitre = types.RoundQty(r.QtyInLitre)
		r.QtyInKg = types.RoundQty(r.QtyInKg)
		r.QtyAfterInLitre = types.RoundQty(r.QtyAfterInLitre)
		r.QtyAfterInKg = types.RoundQty(r.QtyAfterInKg)

		report.TotalQtyInKg = report.TotalQtyInKg.Add(r.QtyInKg)
		report.TotalFat = report.TotalFat.Add(r.Fat)
		report.TotalSNF = report.TotalSNF.Add(r.SNF)
	}
	if report.Rows == nil {
		report.Rows = []MilkQualityLedgerRow{}
	}

	return report, nil
}

// GetRawMilkTesting lists the lab readings of submitted inspections,
// one column per raw milk parameter.
func (s *Service) GetRawMilkTesting(ctx context.Context, filter RawMilkTestingFilter) (*RawMilkTesting, error) {
	if filter.FromDate.IsZero() {
		return nil, apperror.NewMissingInput("from_date")
	}
	if filter.ToDate.IsZero() {
		return nil, apperror.NewMissingInput("to_date")
	}
	filter.FromDate = types.DateOnly(filter.FromDate)
	filter.ToDate = types.DateOnly(filter.ToDate)
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("from date must be before to date").
			WithDetail("fromDate", filter.FromDate.Format(time.DateOnly)).
			WithDetail("toDate", filter.ToDate.Format(time.DateOnly))
	}

	rows, err := s.repo.GetRawMilkTesting(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get raw milk testing: %w", err)
	}
	if rows == nil {
		rows = []RawMilkTestingRow{}
	}
	for i := range rows {
		rows[i].Parameters = pivotReadings(rows[i].Readings)
	}

	return &RawMilkTesting{
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Parameters: RawMilkParameters,
		Rows:       rows,
	}, nil
}

// pivotReadings takes the first reading of each parameter. A non-zero
// numeric value wins over the display value.
func pivotReadings(readings []RawMilkReading) map[string]string {
	out := make(map[string]string, len(RawMilkParameters))
	for _, p := range RawMilkParameters {
		out[p] = ""
		for _, r := range readings {
			if !strings.EqualFold(strings.TrimSpace(r.Specification), p) {
				continue
			}
			if r.Numeric && !r.Value.IsZero() {
				out[p] = r.Value.String()
			} else {
				out[p] = r.ReadingValue
			}
			break
		}
	}
	return out
}

// GetStockBalance generates stock balance report.
func (s *Service) GetStockBalance(ctx context.Context, filter StockBalanceReportFilter) (*StockBalanceReport, error) {
	// Default to current time if not specified
	if filter.AsOfDate == nil {
		now := s.clock.Now()
		filter.AsOfDate = &now
	}

	report, err := s.repo.GetStockBalanceReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get stock balance report: %w", err)
	}

	return report, nil
}
