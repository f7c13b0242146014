package handlers

import (
	"github.com/gin-gonic/gin"

	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/infrastructure/http/v1/dto"
)

type PurchaseReceiptHandler = BaseDocumentHandler[
	*purchase_receipt.PurchaseReceipt,
	dto.PurchaseReceiptRequest,
	dto.PurchaseReceiptRequest,
]

// NewPurchaseReceiptHandler creates the purchase receipt handler.
func NewPurchaseReceiptHandler(base *BaseHandler, service *purchase_receipt.Service) *PurchaseReceiptHandler {
	return NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[
		*purchase_receipt.PurchaseReceipt,
		dto.PurchaseReceiptRequest,
		dto.PurchaseReceiptRequest,
	]{
		Service:      service,
		EntityName:   "purchase receipt",
		MapCreateDTO: dto.PurchaseReceiptRequest.ToEntity,
		MapUpdateDTO: func(req dto.PurchaseReceiptRequest, existing *purchase_receipt.PurchaseReceipt) *purchase_receipt.PurchaseReceipt {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO:       func(doc *purchase_receipt.PurchaseReceipt) any { return dto.FromPurchaseReceipt(doc) },
		SubmitOnCreate: func(req dto.PurchaseReceiptRequest) bool { return req.Submit },
		SubmitOnUpdate: func(req dto.PurchaseReceiptRequest) bool { return req.Submit },
	})
}

// QualityInspectionHandler serves quality inspections.
type QualityInspectionHandler struct {
	*BaseDocumentHandler[
		*quality_inspection.QualityInspection,
		dto.QualityInspectionRequest,
		dto.QualityInspectionRequest,
	]
	service *quality_inspection.Service
}

// NewQualityInspectionHandler creates the quality inspection handler.
func NewQualityInspectionHandler(base *BaseHandler, service *quality_inspection.Service) *QualityInspectionHandler {
	return &QualityInspectionHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[
			*quality_inspection.QualityInspection,
			dto.QualityInspectionRequest,
			dto.QualityInspectionRequest,
		]{
			Service:      service,
			EntityName:   "quality inspection",
			MapCreateDTO: dto.QualityInspectionRequest.ToEntity,
			MapUpdateDTO: func(req dto.QualityInspectionRequest, existing *quality_inspection.QualityInspection) *quality_inspection.QualityInspection {
				req.ApplyTo(existing)
				return existing
			},
			MapToDTO:       func(q *quality_inspection.QualityInspection) any { return dto.FromQualityInspection(q) },
			SubmitOnCreate: func(req dto.QualityInspectionRequest) bool { return req.Submit },
			SubmitOnUpdate: func(req dto.QualityInspectionRequest) bool { return req.Submit },
		}),
		service: service,
	}
}

// MakeInspections handles POST /quality-inspections/make.
// Creates one draft inspection per selected line of a receipt or stock entry.
func (h *QualityInspectionHandler) MakeInspections(c *gin.Context) {
	var req dto.MakeInspectionsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.MakeInspections(c.Request.Context(), req.ReferenceType, req.ReferenceName, req.Lines)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.QualityInspectionResponse, len(created))
	for i, q := range created {
		items[i] = dto.FromQualityInspection(q)
	}
	h.Created(c, gin.H{"items": items})
}

// StockEntryHandler serves stock entries.
type StockEntryHandler struct {
	*BaseDocumentHandler[
		*stock_entry.StockEntry,
		dto.StockEntryRequest,
		dto.StockEntryRequest,
	]
	service *stock_entry.Service
}

// NewStockEntryHandler creates the stock entry handler.
func NewStockEntryHandler(base *BaseHandler, service *stock_entry.Service) *StockEntryHandler {
	return &StockEntryHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[
			*stock_entry.StockEntry,
			dto.StockEntryRequest,
			dto.StockEntryRequest,
		]{
			Service:      service,
			EntityName:   "stock entry",
			MapCreateDTO: dto.StockEntryRequest.ToEntity,
			MapUpdateDTO: func(req dto.StockEntryRequest, existing *stock_entry.StockEntry) *stock_entry.StockEntry {
				req.ApplyTo(existing)
				return existing
			},
			MapToDTO:       func(doc *stock_entry.StockEntry) any { return dto.FromStockEntry(doc) },
			SubmitOnCreate: func(req dto.StockEntryRequest) bool { return req.Submit },
			SubmitOnUpdate: func(req dto.StockEntryRequest) bool { return req.Submit },
		}),
		service: service,
	}
}

// Totals handles GET /stock-entries/:name/totals - blended raw and finished milk.
func (h *StockEntryHandler) Totals(c *gin.Context) {
	name := c.Param("name")
	raw, finished, err := h.service.Totals(c.Request.Context(), name)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.TotalsResponse{Name: name, Raw: raw, Finished: finished})
}
