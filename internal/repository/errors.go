package repository

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "bookit/internal/errors"

	"github.com/lib/pq"
)

// SQLSTATE codes we classify
const (
	pqForeignKeyViolation  = "23503"
	pqUniqueViolation      = "23505"
	pqStringDataTruncation = "22001"
	pqInvalidTextRepr      = "22P02"
)

// translate maps driver errors onto the application error taxonomy.
// Anything it does not recognise is returned wrapped but unclassified.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation, pqUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, apperrors.ErrConflict)
		case pqStringDataTruncation, pqInvalidTextRepr:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Message, apperrors.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
