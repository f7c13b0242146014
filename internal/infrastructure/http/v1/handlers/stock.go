package handlers

import (
	"github.com/gin-gonic/gin"

	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/registers/stock"
	"milkledger/internal/infrastructure/http/v1/dto"
)

// RegistersHandler exposes the stock register and the milk quality ledger.
type RegistersHandler struct {
	*BaseHandler
	stock  *stock.Service
	ledger *milkquality.Service
}

// NewRegistersHandler creates a new registers handler.
func NewRegistersHandler(base *BaseHandler, stockSvc *stock.Service, ledger *milkquality.Service) *RegistersHandler {
	return &RegistersHandler{
		BaseHandler: base,
		stock:       stockSvc,
		ledger:      ledger,
	}
}

// GetBalances handles GET /registers/stock/balances
func (h *RegistersHandler) GetBalances(c *gin.Context) {
	balances, err := h.stock.GetBalances(c.Request.Context(), stock.BalanceFilter{
		ItemCode:    c.Query("itemCode"),
		Warehouse:   c.Query("warehouse"),
		ExcludeZero: h.ParseBoolQuery(c, "excludeZero", true),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": dto.FromBalances(balances)})
}

// GetLedgerEntries handles GET /registers/milk-quality/entries
// Cancelled entries are only listed with includeCancelled=true.
func (h *RegistersHandler) GetLedgerEntries(c *gin.Context) {
	filter := milkquality.ListFilter{
		ItemCode:         c.Query("itemCode"),
		Warehouse:        c.Query("warehouse"),
		VoucherType:      c.Query("voucherType"),
		VoucherNo:        c.Query("voucherNo"),
		BatchNo:          c.Query("batchNo"),
		IncludeCancelled: h.ParseBoolQuery(c, "includeCancelled", false),
	}

	from, ok := h.ParseDateQuery(c, "fromDate")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "toDate")
	if !ok {
		return
	}
	if from != nil {
		filter.FromDate = *from
	}
	if to != nil {
		filter.ToDate = *to
	}

	entries, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []milkquality.LedgerEntry{}
	}
	h.OK(c, gin.H{"items": entries})
}
