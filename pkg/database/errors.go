package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes mapped onto application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidTextRepr     = "22P02"
)

// TranslateError maps pgx errors onto apperrors sentinels.
// Errors it does not recognize are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, constraintOrMessage(pgErr))
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidReference, constraintOrMessage(pgErr))
	case pgCheckViolation, pgNotNullViolation, pgInvalidTextRepr:
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, constraintOrMessage(pgErr))
	}
	return err
}

func constraintOrMessage(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName + ": " + pgErr.Message
	}
	return pgErr.Message
}
