package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"milkledger/internal/core/id"
)

// AuditAction is a lifecycle step recorded in the audit trail.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditSubmit AuditAction = "submit"
	AuditCancel AuditAction = "cancel"
)

// AuditRecord is one entry of a document's history. Snapshot holds the
// document as JSON right after the action.
type AuditRecord struct {
	ID          id.ID           `db:"id" json:"id"`
	VoucherType string          `db:"voucher_type" json:"voucherType"`
	VoucherNo   string          `db:"voucher_no" json:"voucherNo"`
	DocumentID  id.ID           `db:"document_id" json:"documentId"`
	Action      AuditAction     `db:"action" json:"action"`
	Actor       string          `db:"actor" json:"actor"`
	Version     int             `db:"version" json:"version"`
	Snapshot    json.RawMessage `db:"snapshot" json:"snapshot,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// AuditLog stores document history. Record is called inside the transaction
// that performs the action.
type AuditLog interface {
	Record(ctx context.Context, rec AuditRecord) error

	// History returns the newest records first.
	History(ctx context.Context, voucherType, voucherNo string, limit int) ([]AuditRecord, error)
}

func newAuditRecord(doc Doc, action AuditAction, actor string, at time.Time) (AuditRecord, error) {
	rec := AuditRecord{
		ID:          id.New(),
		VoucherType: doc.VoucherType(),
		VoucherNo:   doc.VoucherNo(),
		DocumentID:  doc.GetID(),
		Action:      action,
		Actor:       actor,
		Version:     doc.Base().Version,
		CreatedAt:   at,
	}
	if action == AuditDelete {
		return rec, nil
	}
	snapshot, err := json.Marshal(doc)
	if err != nil {
		return rec, fmt.Errorf("marshal %s snapshot: %w", rec.VoucherType, err)
	}
	rec.Snapshot = snapshot
	return rec, nil
}
