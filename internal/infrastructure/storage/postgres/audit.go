package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"milkledger/internal/core/id"
	"milkledger/internal/domain/documents"
)

// CompressionAlgo specifies how a stored snapshot is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// defaultCompressThreshold keeps small snapshots readable in psql.
const defaultCompressThreshold = 4 * 1024

// auditRow is the stored form of documents.AuditRecord.
type auditRow struct {
	documents.AuditRecord
	Algo CompressionAlgo `db:"compression_algo"`
}

// AuditLog implements documents.AuditLog over sys_audit. Snapshots larger
// than the threshold are zstd-compressed.
type AuditLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ documents.AuditLog = (*AuditLog)(nil)

// NewAuditLog creates the audit log.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: defaultCompressThreshold,
	}, nil
}

// compress returns the stored bytes for a snapshot and how they are encoded.
func (a *AuditLog) compress(snapshot []byte) ([]byte, CompressionAlgo) {
	if len(snapshot) <= a.compressThreshold {
		return snapshot, CompressionNone
	}
	return a.encoder.EncodeAll(snapshot, nil), CompressionZstd
}

func (a *AuditLog) decompress(stored []byte, algo CompressionAlgo) ([]byte, error) {
	switch algo {
	case CompressionZstd:
		out, err := a.decoder.DecodeAll(stored, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot: %w", err)
		}
		return out, nil
	case CompressionNone, "":
		return stored, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", algo)
	}
}

// Record implements documents.AuditLog.
func (a *AuditLog) Record(ctx context.Context, rec documents.AuditRecord) error {
	if id.IsNil(rec.ID) {
		rec.ID = id.New()
	}
	stored, algo := a.compress(rec.Snapshot)

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("sys_audit").
		Columns(
			"id", "voucher_type", "voucher_no", "document_id", "action",
			"actor", "version", "snapshot", "compression_algo", "created_at",
		).
		Values(
			rec.ID, rec.VoucherType, rec.VoucherNo, rec.DocumentID, string(rec.Action),
			rec.Actor, rec.Version, stored, string(algo), rec.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := a.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// History implements documents.AuditLog.
func (a *AuditLog) History(ctx context.Context, voucherType, voucherNo string, limit int) ([]documents.AuditRecord, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(
			"id", "voucher_type", "voucher_no", "document_id", "action",
			"actor", "version", "snapshot", "compression_algo", "created_at",
		).
		From("sys_audit").
		Where(squirrel.Eq{"voucher_type": voucherType, "voucher_no": voucherNo}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := a.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]documents.AuditRecord, 0)
	for rows.Next() {
		var row auditRow
		var stored []byte
		err := rows.Scan(
			&row.ID, &row.VoucherType, &row.VoucherNo, &row.DocumentID, &row.Action,
			&row.Actor, &row.Version, &stored, &row.Algo, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		if row.Snapshot, err = a.decompress(stored, row.Algo); err != nil {
			return nil, err
		}
		out = append(out, row.AuditRecord)
	}
	return out, rows.Err()
}
