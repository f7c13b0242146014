// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain/posting"
	"milkledger/internal/domain/registers/milkquality"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Catalog DTOs ---

// CatalogRequest carries the fields shared by all master data.
type CatalogRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Disabled bool   `json:"disabled"`
}

// ApplyTo copies the common fields onto c. The code is only set on create.
func (r CatalogRequest) ApplyTo(c *entity.Catalog) {
	if c.Code == "" {
		c.Code = r.Code
	}
	c.Name = r.Name
	if c.Name == "" {
		c.Name = c.Code
	}
	c.Disabled = r.Disabled
}

// CatalogResponse contains catalog fields.
type CatalogResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Disabled bool   `json:"disabled"`
	Version  int    `json:"version"`
}

// FromCatalog creates CatalogResponse from entity.Catalog.
func FromCatalog(c entity.Catalog) CatalogResponse {
	return CatalogResponse{
		ID:       c.ID.String(),
		Code:     c.Code,
		Name:     c.Name,
		Disabled: c.Disabled,
		Version:  c.Version,
	}
}

// --- Document DTOs ---

// DocumentRequest carries the header fields shared by all documents.
type DocumentRequest struct {
	// Name may be given on create to import a document under its own number.
	Name        string     `json:"name"`
	PostingDate *time.Time `json:"postingDate"`
	PostingTime string     `json:"postingTime"`
	Remarks     string     `json:"remarks"`
}

// ApplyTo copies the header onto d. The name is only set on create.
func (r DocumentRequest) ApplyTo(d *entity.Document) {
	if d.Name == "" {
		d.Name = r.Name
	}
	if r.PostingDate != nil {
		d.PostingDate = *r.PostingDate
	}
	d.PostingTime = r.PostingTime
	d.Remarks = r.Remarks
}

// DocumentResponse contains document header fields.
type DocumentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PostingDate time.Time `json:"postingDate"`
	PostingTime string    `json:"postingTime,omitempty"`
	Status      string    `json:"status"`
	DocStatus   int       `json:"docstatus"`
	Remarks     string    `json:"remarks,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
}

// FromDocument creates DocumentResponse from entity.Document.
func FromDocument(d entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		PostingDate: d.PostingDate,
		PostingTime: d.PostingTime,
		Status:      d.Status.String(),
		DocStatus:   int(d.Status),
		Remarks:     d.Remarks,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
		UpdatedAt:   d.UpdatedAt,
		UpdatedBy:   d.UpdatedBy,
	}
}

// TransitionResponse is returned by submit and cancel.
type TransitionResponse struct {
	Document any `json:"document"`

	// Entries are the ledger entries written on submit.
	Entries []milkquality.LedgerEntry `json:"entries,omitempty"`
	// Cancelled counts the ledger entries flagged on cancel.
	Cancelled int `json:"cancelled"`
}

// NewTransitionResponse combines a document with the posting outcome.
func NewTransitionResponse(doc any, result *posting.Result) TransitionResponse {
	resp := TransitionResponse{Document: doc}
	if result != nil {
		resp.Entries = result.Entries
		resp.Cancelled = result.Cancelled
	}
	return resp
}
