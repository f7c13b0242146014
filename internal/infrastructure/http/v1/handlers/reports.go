package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"milkledger/internal/domain/reports"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetMilkQualityLedger handles GET /reports/milk-quality-ledger
func (h *ReportsHandler) GetMilkQualityLedger(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "fromDate")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "toDate")
	if !ok {
		return
	}

	filter := reports.MilkQualityLedgerFilter{
		ItemCodes:   h.QueryList(c, "itemCode"),
		Warehouses:  h.QueryList(c, "warehouse"),
		VoucherType: c.Query("voucherType"),
		VoucherNo:   c.Query("voucherNo"),
		BatchNo:     c.Query("batchNo"),
		IncludeUOM:  h.ParseBoolQuery(c, "includeUom", false),
	}
	if from != nil {
		filter.FromDate = *from
	}
	if to != nil {
		filter.ToDate = *to
	}

	report, err := h.service.GetMilkQualityLedger(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetRawMilkTesting handles GET /reports/raw-milk-testing
func (h *ReportsHandler) GetRawMilkTesting(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "fromDate")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "toDate")
	if !ok {
		return
	}

	filter := reports.RawMilkTestingFilter{
		QualityInspection: c.Query("qualityInspection"),
		PurchaseReceipt:   c.Query("purchaseReceipt"),
		Supplier:          c.Query("supplier"),
	}
	if from != nil {
		filter.FromDate = *from
	}
	if to != nil {
		filter.ToDate = *to
	}

	report, err := h.service.GetRawMilkTesting(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetStockBalance handles GET /reports/stock-balance
func (h *ReportsHandler) GetStockBalance(c *gin.Context) {
	asOf, ok := h.ParseDateQuery(c, "asOfDate")
	if !ok {
		return
	}
	if asOf != nil {
		// The whole day counts.
		end := asOf.Add(24*time.Hour - time.Nanosecond)
		asOf = &end
	}

	report, err := h.service.GetStockBalance(c.Request.Context(), reports.StockBalanceReportFilter{
		AsOfDate:    asOf,
		ItemCodes:   h.QueryList(c, "itemCode"),
		Warehouses:  h.QueryList(c, "warehouse"),
		ExcludeZero: h.ParseBoolQuery(c, "excludeZero", true),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
