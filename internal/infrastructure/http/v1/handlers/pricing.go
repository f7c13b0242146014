package handlers

import (
	"github.com/gin-gonic/gin"

	"milkledger/internal/domain/pricing"
)

// PricingHandler previews milk rates before a receipt is saved.
type PricingHandler struct {
	*BaseHandler
	calculator *pricing.Calculator
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(base *BaseHandler, calculator *pricing.Calculator) *PricingHandler {
	return &PricingHandler{BaseHandler: base, calculator: calculator}
}

// MilkRate handles POST /pricing/milk-rate
func (h *PricingHandler) MilkRate(c *gin.Context) {
	var in pricing.Input
	if !h.BindJSON(c, &in) {
		return
	}

	breakdown, err := h.calculator.Compute(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, breakdown)
}
