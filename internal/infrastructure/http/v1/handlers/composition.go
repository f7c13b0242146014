package handlers

import (
	"github.com/gin-gonic/gin"

	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/composition"
	"milkledger/internal/infrastructure/http/v1/dto"
)

// CompositionHandler serves the fat/SNF lookups draft forms use.
// Every call reads fresh data.
type CompositionHandler struct {
	*BaseHandler
	resolver *composition.Resolver
}

// NewCompositionHandler creates a new composition handler.
func NewCompositionHandler(base *BaseHandler, resolver *composition.Resolver) *CompositionHandler {
	return &CompositionHandler{BaseHandler: base, resolver: resolver}
}

// FromInspection handles GET /composition/inspection/:name?qty=
func (h *CompositionHandler) FromInspection(c *gin.Context) {
	qty, ok := h.ParseDecimalQuery(c, "qty")
	if !ok {
		return
	}

	values, err := h.resolver.FromInspection(c.Request.Context(), c.Param("name"), qty)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromValues(values))
}

// LastKnown handles GET /composition/last-known?itemCode=&warehouse=&qty=
func (h *CompositionHandler) LastKnown(c *gin.Context) {
	itemCode, warehouse := c.Query("itemCode"), c.Query("warehouse")
	if itemCode == "" {
		h.Error(c, apperror.NewMissingInput("itemCode"))
		return
	}
	if warehouse == "" {
		h.Error(c, apperror.NewMissingInput("warehouse"))
		return
	}
	qty, ok := h.ParseDecimalQuery(c, "qty")
	if !ok {
		return
	}

	values, err := h.resolver.LastKnown(c.Request.Context(), itemCode, warehouse, qty)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromValues(values))
}

// SNF handles GET /composition/snf?fat=&lr= - SNF from a lactometer reading.
func (h *CompositionHandler) SNF(c *gin.Context) {
	fat, ok := h.ParseDecimalQuery(c, "fat")
	if !ok {
		return
	}
	lr, ok := h.ParseDecimalQuery(c, "lr")
	if !ok {
		return
	}
	h.OK(c, gin.H{"snf": composition.CalculateSNF(fat, lr)})
}

// Blend handles POST /composition/blend
func (h *CompositionHandler) Blend(c *gin.Context) {
	var req dto.BlendRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.OK(c, composition.BlendComponents(req.ToComponents()))
}
