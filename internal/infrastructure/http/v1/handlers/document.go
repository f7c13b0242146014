package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/posting"
	"milkledger/internal/infrastructure/http/v1/dto"
)

// DocumentService defines the interface that services must implement for BaseDocumentHandler.
type DocumentService[T any] interface {
	Get(ctx context.Context, name string) (T, error)
	Create(ctx context.Context, doc T) error
	Update(ctx context.Context, doc T) error
	Delete(ctx context.Context, name string) error
	Submit(ctx context.Context, name string) (T, *posting.Result, error)
	Cancel(ctx context.Context, name string) (T, *posting.Result, error)
	List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[T], error)
	History(ctx context.Context, name string, limit int) ([]documents.AuditRecord, error)
}

// BaseDocumentHandler provides generic HTTP handlers for documents addressed by name.
type BaseDocumentHandler[T documents.Doc, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    DocumentService[T]
	entityName string

	// Mapper functions
	mapCreateDTO     func(dto CreateDTO) T
	mapUpdateDTO     func(dto UpdateDTO, existing T) T
	mapToDTO         func(entity T) any
	submitAfterSave  func(dto CreateDTO) bool
	submitAfterWrite func(dto UpdateDTO) bool
}

// BaseDocumentHandlerConfig configures the document handler.
type BaseDocumentHandlerConfig[T documents.Doc, CreateDTO any, UpdateDTO any] struct {
	Service      DocumentService[T]
	EntityName   string
	MapCreateDTO func(dto CreateDTO) T
	MapUpdateDTO func(dto UpdateDTO, existing T) T
	MapToDTO     func(entity T) any

	// SubmitOnCreate and SubmitOnUpdate report whether the request asks to
	// submit right after saving.
	SubmitOnCreate func(dto CreateDTO) bool
	SubmitOnUpdate func(dto UpdateDTO) bool
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T documents.Doc, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg BaseDocumentHandlerConfig[T, CreateDTO, UpdateDTO],
) *BaseDocumentHandler[T, CreateDTO, UpdateDTO] {
	return &BaseDocumentHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:      base,
		service:          cfg.Service,
		entityName:       cfg.EntityName,
		mapCreateDTO:     cfg.MapCreateDTO,
		mapUpdateDTO:     cfg.MapUpdateDTO,
		mapToDTO:         cfg.MapToDTO,
		submitAfterSave:  cfg.SubmitOnCreate,
		submitAfterWrite: cfg.SubmitOnUpdate,
	}
}

// Get handles GET /{entity}/:name
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(doc))
}

// List handles GET /{entity}
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	filter := documents.ListFilter{ListFilter: domain.DefaultListFilter()}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	if s := c.Query("docstatus"); s != "" {
		status := entity.DocStatus(h.ParseIntQuery(c, "docstatus", -1))
		if status < entity.StatusDraft || status > entity.StatusCancelled {
			h.Error(c, apperror.NewValidation("docstatus must be 0, 1 or 2").WithDetail("field", "docstatus"))
			return
		}
		filter.Status = &status
	}

	var ok bool
	if filter.DateFrom, ok = h.ParseDateQuery(c, "fromDate"); !ok {
		return
	}
	if filter.DateTo, ok = h.ParseDateQuery(c, "toDate"); !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = h.mapToDTO(doc)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /{entity}. With "submit": true the draft is submitted
// after it is saved; a failed submission leaves the draft in place.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.mapCreateDTO(req)
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	if h.submitAfterSave != nil && h.submitAfterSave(req) {
		submitted, result, err := h.service.Submit(ctx, doc.VoucherNo())
		if err != nil {
			h.Error(c, err)
			return
		}
		h.Created(c, dto.NewTransitionResponse(h.mapToDTO(submitted), result))
		return
	}

	h.Created(c, h.mapToDTO(doc))
}

// Update handles PUT /{entity}/:name. Only drafts can be updated.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.Get(ctx, c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}

	doc := h.mapUpdateDTO(req, existing)
	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	if h.submitAfterWrite != nil && h.submitAfterWrite(req) {
		submitted, result, err := h.service.Submit(ctx, doc.VoucherNo())
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewTransitionResponse(h.mapToDTO(submitted), result))
		return
	}

	h.OK(c, h.mapToDTO(doc))
}

// Delete handles DELETE /{entity}/:name. Only drafts can be deleted.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("name")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Submit handles POST /{entity}/:name/submit
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Submit(c *gin.Context) {
	doc, result, err := h.service.Submit(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewTransitionResponse(h.mapToDTO(doc), result))
}

// Cancel handles POST /{entity}/:name/cancel
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Cancel(c *gin.Context) {
	doc, result, err := h.service.Cancel(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewTransitionResponse(h.mapToDTO(doc), result))
}

// History handles GET /{entity}/:name/history
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) History(c *gin.Context) {
	records, err := h.service.History(c.Request.Context(), c.Param("name"), h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	if records == nil {
		records = []documents.AuditRecord{}
	}
	h.OK(c, gin.H{"items": records})
}
