// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	appctx "milkledger/internal/core/context"
	"milkledger/internal/infrastructure/http/v1/dto"
)

// DateLayout is the format of date query parameters.
const DateLayout = "2006-01-02"

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error processes error and sends appropriate response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	h.HandleError(c, err)
}

// HandleError registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseBoolQuery parses boolean query parameter with default value.
func (h *BaseHandler) ParseBoolQuery(c *gin.Context, key string, defaultVal bool) bool {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseDateQuery parses an optional YYYY-MM-DD query parameter.
// ok is false when the request has been aborted.
func (h *BaseHandler) ParseDateQuery(c *gin.Context, key string) (t *time.Time, ok bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	parsed, err := time.Parse(DateLayout, val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key+" format, expected YYYY-MM-DD").
			WithDetail("field", key))
		return nil, false
	}
	return &parsed, true
}

// ParseDecimalQuery parses an optional decimal query parameter; absent is zero.
func (h *BaseHandler) ParseDecimalQuery(c *gin.Context, key string) (decimal.Decimal, bool) {
	val := c.Query(key)
	if val == "" {
		return decimal.Zero, true
	}
	parsed, err := decimal.NewFromString(val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key+", expected a number").
			WithDetail("field", key))
		return decimal.Zero, false
	}
	return parsed, true
}

// QueryList returns a repeated or comma-separated query parameter.
func (h *BaseHandler) QueryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Actor returns the identity the request runs as.
func (h *BaseHandler) Actor(c *gin.Context) string {
	return appctx.GetActor(c.Request.Context())
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
