package errors

import (
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// PostgreSQL error codes
const (
	// Check violation (constraint failed)
	PgErrorCodeCheckViolation = "23514"
	// Unique violation
	PgErrorCodeUniqueViolation = "23505"
	// Foreign key violation
	PgErrorCodeForeignKeyViolation = "23503"
	// Not null violation
	PgErrorCodeNotNullViolation = "23502"
	// Lock not available (FOR UPDATE NOWAIT failed)
	PgErrorCodeLockNotAvailable = "55P03"
	// Serialization failure
	PgErrorCodeSerializationFailure = "40001"
)

// ErrRecordNotFound is returned when a lookup matched no row
var ErrRecordNotFound = errors.New("record not found")

// DuplicateError represents a unique constraint violation
type DuplicateError struct {
	Operation  string `json:"operation"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

func (e *DuplicateError) Error() string {
	return e.Message
}

// ReferenceError represents a foreign key violation, e.g. a favorite mark
// that points to a drink missing from the cache
type ReferenceError struct {
	Operation  string `json:"operation"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

func (e *ReferenceError) Error() string {
	return e.Message
}

// ConcurrentOperationError represents a race condition or lock contention
type ConcurrentOperationError struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

func (e *ConcurrentOperationError) Error() string {
	return e.Message
}

// HandleDatabaseError converts PostgreSQL errors to typed errors
func HandleDatabaseError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrRecordNotFound, "%s", operation)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return handlePostgreSQLError(pgErr, operation)
	}

	return errors.Wrapf(err, "database error during %s", operation)
}

// handlePostgreSQLError handles specific PostgreSQL error codes
func handlePostgreSQLError(pgErr *pgconn.PgError, operation string) error {
	switch pgErr.Code {
	case PgErrorCodeUniqueViolation:
		return &DuplicateError{
			Operation:  operation,
			Constraint: pgErr.ConstraintName,
			Message:    "duplicate " + operation + ": " + pgErr.Message,
		}

	case PgErrorCodeForeignKeyViolation:
		return &ReferenceError{
			Operation:  operation,
			Constraint: pgErr.ConstraintName,
			Message:    "invalid reference during " + operation + ": " + pgErr.Message,
		}

	case PgErrorCodeLockNotAvailable, PgErrorCodeSerializationFailure:
		return &ConcurrentOperationError{
			Operation: operation,
			Message:   "Resource is currently locked by another transaction. Please retry.",
		}

	case PgErrorCodeCheckViolation:
		return errors.Errorf("constraint violation during %s: %s", operation, pgErr.Message)

	case PgErrorCodeNotNullViolation:
		return errors.Errorf("missing required field during %s: %s", operation, pgErr.Message)

	default:
		return errors.Errorf("database error during %s: %s", operation, pgErr.Message)
	}
}

// IsDuplicateError checks if err is a unique constraint violation
func IsDuplicateError(err error) bool {
	var dupErr *DuplicateError
	return errors.As(err, &dupErr)
}

// IsReferenceError checks if err is a foreign key violation
func IsReferenceError(err error) bool {
	var refErr *ReferenceError
	return errors.As(err, &refErr)
}

// IsConcurrentOperationError checks if error is a concurrent operation error
func IsConcurrentOperationError(err error) bool {
	var concurrentErr *ConcurrentOperationError
	return errors.As(err, &concurrentErr)
}

// IsNotFound checks if err reports a missing row
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
