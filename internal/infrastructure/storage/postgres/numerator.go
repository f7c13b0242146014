package postgres

import (
	"context"
	"fmt"
	"time"

	"milkledger/internal/core/numerator"
)

// Numerator draws names from sys_sequences. Inside a transaction the counter
// row stays locked until commit and a rollback gives the number back.
type Numerator struct {
	txManager *TxManager
}

var _ numerator.Generator = (*Numerator)(nil)

// NewNumerator creates a numerator.
func NewNumerator(txManager *TxManager) *Numerator {
	return &Numerator{txManager: txManager}
}

// GetNextNumber implements numerator.Generator.
func (n *Numerator) GetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error) {
	var next int64
	err := n.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, cfg.Key(period)).Scan(&next)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", cfg.Key(period), err)
	}
	return cfg.Format(period, next), nil
}
