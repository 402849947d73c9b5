package postgres

import (
	"errors"

	"casedesk/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// StoreError wraps a failure the caller may retry. Errors that already carry
// a domain meaning pass through unchanged.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	for _, sentinel := range []error{domain.ErrNotFound, domain.ErrConflict, domain.ErrValidation, domain.ErrForbidden} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &domain.StoreUnavailableError{Op: op, Err: err}
}
