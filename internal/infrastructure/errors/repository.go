package errors

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ClassifyStorageError classifies database errors into pipeline error codes.
// Driver-level sqlite3 errors are inspected first, then standard library
// sentinels, then the error text.
func ClassifyStorageError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	}

	// The driver does not always surface a typed error, so fall back to
	// the strings SQLite actually emits.
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "unique constraint"):
		return ErrCodeDuplicate
	case strings.Contains(errStr, "foreign key constraint"),
		strings.Contains(errStr, "check constraint"),
		strings.Contains(errStr, "not null constraint"):
		return ErrCodeConstraint
	case strings.Contains(errStr, "database is locked"):
		return ErrCodeBusy
	case strings.Contains(errStr, "database disk image is malformed"):
		return ErrCodeCorruption
	case strings.Contains(errStr, "no such table"),
		strings.Contains(errStr, "no such column"):
		return ErrCodeSchema
	case strings.Contains(errStr, "permission denied"),
		strings.Contains(errStr, "access denied"):
		return ErrCodePermission
	case strings.Contains(errStr, "disk full"),
		strings.Contains(errStr, "no space left"):
		return ErrCodeDiskSpace
	case strings.Contains(errStr, "timeout"):
		return ErrCodeTimeout
	default:
		return ErrCodeUnknown
	}
}

// WrapStorageError wraps a database error with its classified code
func WrapStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewPipelineError(op, err, ClassifyStorageError(err))
}

// WrapStorageErrorWithContext wraps a database error with its classified
// code and additional context
func WrapStorageErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	return NewPipelineErrorWithContext(op, err, ClassifyStorageError(err), contextMap)
}

// HandleNotFound creates a standardized not found error for storage operations
func HandleNotFound(op string, resource string, identifier string) error {
	return NewPipelineErrorWithContext(op, sql.ErrNoRows, ErrCodeNotFound, map[string]string{
		"resource":   resource,
		"identifier": identifier,
	})
}

// HandleValidationError creates a standardized validation error for storage operations
func HandleValidationError(op string, field string, value string, reason string) error {
	return NewPipelineErrorWithContext(op, errors.New("validation failed"), ErrCodeValidation, map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	})
}

// HandleConnectionError creates a standardized connection error
func HandleConnectionError(op string, details string) error {
	return NewPipelineErrorWithContext(op, errors.New("connection error"), ErrCodeConnection, map[string]string{
		"details": details,
	})
}
