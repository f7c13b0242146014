package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"milkledger/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates missing tables and indexes. The schema is idempotent.
func Migrate(ctx context.Context, txManager *TxManager) error {
	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := txManager.GetQuerier(ctx).Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		logger.Info(ctx, "database schema applied")
		return nil
	})
}
