package memory

import (
	"context"
	"slices"

	"milkledger/internal/domain/documents"
)

type auditLog struct {
	store *Store
}

// AuditLog returns the document history store.
func (s *Store) AuditLog() documents.AuditLog {
	return &auditLog{store: s}
}

func (a *auditLog) Record(ctx context.Context, rec documents.AuditRecord) error {
	rec.Snapshot = slices.Clone(rec.Snapshot)
	return a.store.write(func(st *state) error {
		st.audit = append(st.audit, rec)
		return nil
	})
}

func (a *auditLog) History(ctx context.Context, voucherType, voucherNo string, limit int) ([]documents.AuditRecord, error) {
	out := make([]documents.AuditRecord, 0)
	_ = a.store.read(func(st *state) error {
		for i := len(st.audit) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			rec := st.audit[i]
			if rec.VoucherType == voucherType && rec.VoucherNo == voucherNo {
				out = append(out, rec)
			}
		}
		return nil
	})
	return out, nil
}
