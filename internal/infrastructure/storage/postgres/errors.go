package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes mapped by the repositories.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// PgError returns the PostgreSQL error in err's chain with the given code.
func PgError(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}
	return nil, false
}

// IsUniqueViolation reports a unique constraint violation, optionally on a named constraint.
func IsUniqueViolation(err error, constraint ...string) bool {
	pgErr, ok := PgError(err, CodeUniqueViolation)
	if !ok {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}

// IsForeignKeyViolation reports a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	_, ok := PgError(err, CodeForeignKeyViolation)
	return ok
}
