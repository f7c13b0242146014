package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"milkledger/internal/core/apperror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateError maps constraint violations to application errors and
// returns anything else unchanged.
func TranslateError(err error, entityName, key string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperror.NewDuplicate(entityName, pgErr.ConstraintName, key).WithCause(err)
	case pgForeignKeyViolation:
		return apperror.NewConflict("record is referenced by other records").
			WithDetail("entity", entityName).
			WithDetail("key", key).
			WithCause(err)
	}
	return err
}
