package casework

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isInvalidUUID reports a malformed id; callers treat it as not found.
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 22P02 = invalid_text_representation
		return pgErr.Code == "22P02"
	}
	return false
}
