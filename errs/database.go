package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrDeadlock                  = errors.New("database deadlock")
	ErrSerializationFailure      = errors.New("serialization failure")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrCheckConstraint           = errors.New("check constraint violation")
)

// Postgres SQLSTATE codes mapped by NewDatabaseError
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Errors that already carry an HTTP meaning (hook validation, lifecycle rules) pass through
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	if errors.Is(cause, gorm.ErrRecordNotFound) {
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
			Cause:      cause,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewUniqueConstraintViolationError(entity, pgErr.ConstraintName, cause)
		case pgForeignKeyViolation:
			return NewForeignKeyConstraintError(entity, pgErr.ConstraintName, cause)
		case pgCheckViolation:
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        ErrCheckConstraint,
				Details:    fmt.Sprintf("Check constraint %s rejected %s", pgErr.ConstraintName, entity),
				Cause:      cause,
			}
		case pgSerializationFailure:
			return NewSerializationFailureError(operation, cause)
		case pgDeadlockDetected:
			return NewDeadlockError(operation, cause)
		}
	}

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

// ConstraintName returns the violated constraint carried by a Postgres error, if any
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Database & Storage Error Constructors
func NewDeadlockError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrDeadlock,
		Details:    fmt.Sprintf("Database deadlock during %s", operation),
		Cause:      cause,
		Field:      "deadlock",
	}
}

func NewSerializationFailureError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrSerializationFailure,
		Details:    fmt.Sprintf("Serialization failure during %s", operation),
		Cause:      cause,
		Field:      "serialization",
	}
}

func NewUniqueConstraintViolationError(entity, constraint string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrUniqueConstraintViolation),
		Details:    fmt.Sprintf("Unique constraint violation on %s (%s)", entity, constraint),
		Cause:      cause,
		Field:      constraint,
	}
}

func NewDatabaseUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrDatabaseConnection,
		Details:    "Unable to connect to database",
		Cause:      cause,
	}
}

func NewForeignKeyConstraintError(entity, constraint string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrForeignKeyConstraint,
		Details:    fmt.Sprintf("Foreign key constraint violation on %s (%s)", entity, constraint),
		Cause:      cause,
		Field:      "foreign_key",
	}
}

// Database & Storage Error Type Checkers
func IsDeadlockError(err error) bool {
	return errors.Is(err, ErrDeadlock)
}

func IsSerializationFailureError(err error) bool {
	return errors.Is(err, ErrSerializationFailure)
}

func IsUniqueConstraintViolationError(err error) bool {
	return errors.Is(err, ErrUniqueConstraintViolation)
}

func IsForeignKeyConstraintError(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}

func IsCheckConstraintError(err error) bool {
	return errors.Is(err, ErrCheckConstraint)
}
