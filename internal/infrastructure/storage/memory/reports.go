package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/reports"
)

type reportRepo struct {
	store *Store
}

// ReportRepo returns the report repository.
func (s *Store) ReportRepo() reports.Repository {
	return &reportRepo{store: s}
}

func (r *reportRepo) GetMilkQualityLedger(ctx context.Context, filter reports.MilkQualityLedgerFilter) ([]reports.MilkQualityLedgerRow, error) {
	var entries []milkquality.LedgerEntry
	stockUOM := make(map[string]string)

	_ = r.store.read(func(st *state) error {
		base := milkquality.ListFilter{
			FromDate:    filter.FromDate,
			ToDate:      filter.ToDate,
			VoucherType: filter.VoucherType,
			VoucherNo:   filter.VoucherNo,
			BatchNo:     filter.BatchNo,
		}
		for _, e := range st.ledger {
			if !matchEntry(&e, base) {
				continue
			}
			if len(filter.ItemCodes) > 0 && !slices.Contains(filter.ItemCodes, e.ItemCode) {
				continue
			}
			if len(filter.Warehouses) > 0 && !slices.Contains(filter.Warehouses, e.Warehouse) {
				continue
			}
			entries = append(entries, e)
		}
		for code, it := range st.items {
			stockUOM[code] = it.StockUOM
		}
		return nil
	})
	sortEntries(entries)

	rows := make([]reports.MilkQualityLedgerRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, reports.MilkQualityLedgerRow{
			Name:            e.Name,
			PostingDate:     e.PostingDate,
			PostingTime:     e.PostingTime,
			ItemCode:        e.ItemCode,
			ItemName:        e.ItemName,
			Warehouse:       e.Warehouse,
			BatchNo:         e.BatchNo,
			VoucherType:     e.VoucherType,
			VoucherNo:       e.VoucherNo,
			UOM:             e.UOM,
			ItemUOM:         stockUOM[e.ItemCode],
			FatPercent:      e.FatPercent,
			SNFPercent:      e.SNFPercent,
			Fat:             e.Fat,
			SNF:             e.SNF,
			QtyInLitre:      e.QtyInLitre,
			QtyInKg:         e.QtyInKg,
			QtyAfterInLitre: e.QtyAfterInLitre,
			QtyAfterInKg:    e.QtyAfterInKg,
			CreatedAt:       e.CreatedAt,
		})
	}
	return rows, nil
}

func (r *reportRepo) GetRawMilkTesting(ctx context.Context, filter reports.RawMilkTestingFilter) ([]reports.RawMilkTestingRow, error) {
	rows := []reports.RawMilkTestingRow{}

	_ = r.store.read(func(st *state) error {
		for _, qi := range st.inspections {
			if qi.Status != entity.StatusSubmitted ||
				qi.PostingDate.Before(filter.FromDate) || qi.PostingDate.After(filter.ToDate) {
				continue
			}
			if filter.QualityInspection != "" && qi.Name != filter.QualityInspection {
				continue
			}
			if filter.PurchaseReceipt != "" && qi.ReferenceName != filter.PurchaseReceipt {
				continue
			}

			row := reports.RawMilkTestingRow{
				ID:                qi.ID,
				QualityInspection: qi.Name,
				ReportDate:        qi.PostingDate,
				NetWeight:         decimal.Zero,
				InTime:            qi.InTime,
				OutTime:           qi.OutTime,
				MBRTStart:         qi.MBRTStart,
				MBRTEnd:           qi.MBRTEnd,
				MBRTTotal:         qi.MBRTTotal,
				Remarks:           qi.Remarks,
			}
			if qi.ReferenceType == milkquality.VoucherPurchaseReceipt {
				if pr, ok := st.receipts[qi.ReferenceName]; ok {
					row.PurchaseReceipt = pr.Name
					row.TankerNo = pr.TankerNo
					row.Supplier = pr.Supplier
					row.NetWeight = pr.NetWeight
					if sup, ok := st.suppliers[pr.Supplier]; ok {
						row.SupplierName = sup.Name
					}
				}
			}
			if filter.Supplier != "" && row.Supplier != filter.Supplier {
				continue
			}
			for _, rd := range qi.Readings {
				row.Readings = append(row.Readings, reports.RawMilkReading{
					Specification: rd.Specification,
					Numeric:       rd.Numeric,
					Value:         rd.Value,
					ReadingValue:  rd.ReadingValue,
				})
			}
			rows = append(rows, row)
		}
		return nil
	})

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].ReportDate.Equal(rows[j].ReportDate) {
			return rows[i].ReportDate.Before(rows[j].ReportDate)
		}
		return rows[i].QualityInspection < rows[j].QualityInspection
	})
	return rows, nil
}

func (r *reportRepo) GetStockBalanceReport(ctx context.Context, filter reports.StockBalanceReportFilter) (*reports.StockBalanceReport, error) {
	report := &reports.StockBalanceReport{AsOfDate: *filter.AsOfDate, Items: []reports.StockBalanceReportItem{}}

	_ = r.store.read(func(st *state) error {
		rows := balances(st.movements, filter.AsOfDate, func(m *entity.StockMovement) bool {
			return (len(filter.ItemCodes) == 0 || slices.Contains(filter.ItemCodes, m.ItemCode)) &&
				(len(filter.Warehouses) == 0 || slices.Contains(filter.Warehouses, m.Warehouse))
		})
		for _, b := range rows {
			if filter.ExcludeZero && b.Quantity.IsZero() {
				continue
			}
			row := reports.StockBalanceReportItem{
				ItemCode:  b.ItemCode,
				Warehouse: b.Warehouse,
				Quantity:  b.Quantity.Decimal(),
			}
			if it, ok := st.items[b.ItemCode]; ok {
				row.ItemName, row.StockUOM = it.Name, it.StockUOM
			}
			report.Items = append(report.Items, row)
		}
		return nil
	})

	report.TotalItems = len(report.Items)
	report.TotalQuantity = decimal.Zero
	for _, it := range report.Items {
		report.TotalQuantity = report.TotalQuantity.Add(it.Quantity)
	}
	return report, nil
}
