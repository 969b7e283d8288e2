package dberrors

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes used by the repositories.
const (
	foreignKeyViolation = "23503"
	// Class 08: connection exception
	connectionExceptionClass = "08"
	// Class 57P: operator intervention (admin shutdown, cannot connect now)
	operatorInterventionClass = "57P"
)

// IsForeignKeyError checks if the error is a foreign key violation
func IsForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsConnectionError reports whether err means the database itself could not be reached,
// as opposed to a statement failing on a healthy connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := pgErr.Code
		return len(code) >= 2 && code[:2] == connectionExceptionClass ||
			len(code) >= 3 && code[:3] == operatorInterventionClass
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// Classify wraps err with apperrors.ErrStoreUnavailable when it is a connection-level failure,
// leaving statement failures untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return err
}
