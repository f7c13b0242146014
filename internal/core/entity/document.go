package entity

import (
	"context"
	"time"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/id"
	"milkledger/internal/core/types"
)

// DocStatus is the lifecycle state of a document or ledger row.
type DocStatus int

const (
	StatusDraft DocStatus = iota
	StatusSubmitted
	StatusCancelled
)

func (s DocStatus) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmitted:
		return "Submitted"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// CanTransition reports whether the lifecycle permits moving from s to next.
// Draft -> Submitted -> Cancelled; nothing else.
func (s DocStatus) CanTransition(next DocStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusSubmitted
	case StatusSubmitted:
		return next == StatusCancelled
	default:
		return false
	}
}

// Document is the base type for source documents that drive the ledger.
type Document struct {
	BaseDocument

	// Name is the voucher number (PR-2026-00001); unique per voucher type.
	Name string `db:"name" json:"name"`

	// PostingDate is the business date of the document.
	PostingDate time.Time `db:"posting_date" json:"postingDate"`

	// PostingTime is HH:MM:SS; empty means "now" at submission.
	PostingTime string `db:"posting_time" json:"postingTime,omitempty"`

	Status DocStatus `db:"docstatus" json:"docstatus"`

	Remarks string `db:"remarks" json:"remarks,omitempty"`
}

// NewDocument creates a Draft document dated today.
func NewDocument(now time.Time, actor string) Document {
	return Document{
		BaseDocument: NewBaseDocument(now, actor),
		PostingDate:  types.DateOnly(now),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.PostingDate.IsZero() {
		return apperror.NewValidation("posting date is required").
			WithDetail("field", "postingDate")
	}
	if d.PostingTime != "" {
		if _, err := types.ParseClock(d.PostingTime); err != nil {
			return apperror.NewValidation("posting time must be HH:MM:SS").
				WithDetail("field", "postingTime")
		}
	}
	return nil
}

// CanModify checks if document can be edited. Only drafts are mutable.
func (d *Document) CanModify() error {
	if d.Status != StatusDraft {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentSubmitted,
			"Cannot modify a submitted or cancelled document",
		).WithDetail("name", d.Name).WithDetail("status", d.Status.String())
	}
	return nil
}

// Transition moves the document along the lifecycle.
func (d *Document) Transition(next DocStatus, now time.Time, actor string) error {
	if !d.Status.CanTransition(next) {
		return apperror.NewInvalidTransition(d.Status.String(), next.String()).
			WithDetail("name", d.Name)
	}
	d.Status = next
	d.Stamp(now, actor)
	return nil
}

// ResolvePostingTime fills in a missing date or time from now and returns the
// effective posting instant.
func (d *Document) ResolvePostingTime(now time.Time) (time.Time, error) {
	if d.PostingDate.IsZero() {
		d.PostingDate = types.DateOnly(now)
	}
	if d.PostingTime == "" {
		d.PostingTime = types.ClockOf(now)
	}
	return types.CombineDateTime(d.PostingDate, d.PostingTime)
}

// --- Postable defaults ---

// GetID returns the document ID.
func (d *Document) GetID() id.ID {
	return d.ID
}

// VoucherNo returns the document name used as the ledger voucher number.
func (d *Document) VoucherNo() string {
	return d.Name
}

// Posting returns the document's posting date and time.
func (d *Document) Posting() (time.Time, string) {
	return d.PostingDate, d.PostingTime
}

// IsSubmitted reports whether ledger effects currently exist for the document.
func (d *Document) IsSubmitted() bool {
	return d.Status == StatusSubmitted
}

// CanPost validates that the document is a draft ready for submission.
func (d *Document) CanPost(ctx context.Context) error {
	if d.Status != StatusDraft {
		return apperror.NewInvalidTransition(d.Status.String(), StatusSubmitted.String()).
			WithDetail("name", d.Name)
	}
	return d.Validate(ctx)
}

// GetStatus returns the lifecycle state.
func (d *Document) GetStatus() DocStatus {
	return d.Status
}

// Init assigns identity and audit fields to a document about to be created.
func (d *Document) Init(now time.Time, actor string) {
	if id.IsNil(d.ID) {
		d.ID = id.New()
	}
	d.Version = 1
	d.Status = StatusDraft
	d.CreatedAt, d.UpdatedAt = now, now
	d.CreatedBy, d.UpdatedBy = actor, actor
	if d.PostingDate.IsZero() {
		d.PostingDate = types.DateOnly(now)
	} else {
		d.PostingDate = types.DateOnly(d.PostingDate)
	}
}

// SetName assigns the voucher number.
func (d *Document) SetName(name string) {
	d.Name = name
}

// Base exposes the embedded document to generic services.
func (d *Document) Base() *Document {
	return d
}
