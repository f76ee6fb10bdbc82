package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode represents different types of pipeline errors
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeValidation
	ErrCodeMalformedPayload
	ErrCodeNotFound
	ErrCodeTooLarge
	ErrCodePermission
	ErrCodeBusy
	ErrCodeTimeout
	ErrCodeReadinessTimeout
	ErrCodeUnsupported
	ErrCodeCancelled
	ErrCodeConnection
	ErrCodeDuplicate
	ErrCodeConstraint
	ErrCodeCorruption
	ErrCodeDiskSpace
	ErrCodeSchema
	ErrCodeRetryable
	ErrCodeNonRetryable
	ErrCodeInternal
)

// String returns a string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeValidation:
		return "VALIDATION"
	case ErrCodeMalformedPayload:
		return "MALFORMED_PAYLOAD"
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodeTooLarge:
		return "TOO_LARGE"
	case ErrCodePermission:
		return "PERMISSION"
	case ErrCodeBusy:
		return "BUSY"
	case ErrCodeTimeout:
		return "TIMEOUT"
	case ErrCodeReadinessTimeout:
		return "READINESS_TIMEOUT"
	case ErrCodeUnsupported:
		return "UNSUPPORTED"
	case ErrCodeCancelled:
		return "CANCELLED"
	case ErrCodeConnection:
		return "CONNECTION"
	case ErrCodeDuplicate:
		return "DUPLICATE"
	case ErrCodeConstraint:
		return "CONSTRAINT"
	case ErrCodeCorruption:
		return "CORRUPTION"
	case ErrCodeDiskSpace:
		return "DISK_SPACE"
	case ErrCodeSchema:
		return "SCHEMA"
	case ErrCodeRetryable:
		return "RETRYABLE"
	case ErrCodeNonRetryable:
		return "NON_RETRYABLE"
	case ErrCodeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// PipelineError represents a pipeline-specific error with context and retry information
type PipelineError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Code      ErrorCode         // error classification
	Retryable bool              // whether the error is retryable
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

func (e *PipelineError) Error() string {
	// Guard against nil receiver
	if e == nil {
		return "pipeline error"
	}

	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.Code != ErrCodeUnknown {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code.String()))
	}

	if e.Retryable {
		parts = append(parts, "retryable=true")
	}

	// Add context with deterministic order
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	contextStr := ""
	if len(parts) > 0 {
		contextStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + contextStr
	}
	return "pipeline error" + contextStr
}

func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements error matching for errors.Is
func (e *PipelineError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*PipelineError); ok {
		return e.Code == t.Code
	}
	// Also check if the target matches the underlying/wrapped error
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// IsRetryable returns whether the error is retryable
func (e *PipelineError) IsRetryable() bool {
	if e == nil {
		return false
	}
	return e.Retryable
}

// GetCode returns the error code as a string (for logging interface compatibility)
func (e *PipelineError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context (for logging interface compatibility)
func (e *PipelineError) GetContext() map[string]string {
	if e == nil {
		return make(map[string]string)
	}
	if e.Context == nil {
		return make(map[string]string)
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (for logging interface compatibility)
func (e *PipelineError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// WithContext adds context information to the error by mutating the receiver.
// This method is not concurrency-safe and should not be used after the error
// has been published to other goroutines without proper synchronization.
// For concurrent usage, create a new error with NewPipelineErrorWithContext instead.
func (e *PipelineError) WithContext(key, value string) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewPipelineError creates a new pipeline error with the given parameters
func NewPipelineError(op string, err error, code ErrorCode) *PipelineError {
	return &PipelineError{
		Op:        op,
		Err:       err,
		Code:      code,
		Retryable: isRetryableError(code, err),
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewPipelineErrorWithContext creates a new pipeline error with additional context
func NewPipelineErrorWithContext(op string, err error, code ErrorCode, context map[string]string) *PipelineError {
	pipeErr := NewPipelineError(op, err, code)
	if context != nil {
		// Clone the context map to avoid external mutation and data races
		pipeErr.Context = make(map[string]string, len(context))
		for k, v := range context {
			pipeErr.Context[k] = v
		}
	}
	return pipeErr
}

// isRetryableError determines if an error is retryable based on its type
func isRetryableError(code ErrorCode, err error) bool {
	switch code {
	case ErrCodeBusy, ErrCodeTimeout:
		return true
	case ErrCodeRetryable:
		return true
	case ErrCodeNonRetryable:
		return false
	case ErrCodeValidation, ErrCodeMalformedPayload, ErrCodeNotFound, ErrCodeTooLarge,
		ErrCodePermission, ErrCodeReadinessTimeout, ErrCodeUnsupported, ErrCodeCancelled,
		ErrCodeConnection, ErrCodeDuplicate, ErrCodeConstraint, ErrCodeCorruption,
		ErrCodeDiskSpace, ErrCodeSchema, ErrCodeInternal:
		return false
	default:
		// For unknown errors, check the underlying error message.
		// Association launches can race antivirus scanners and downloaders
		// that still hold the file open, which surfaces as lock errors.
		if err != nil {
			errStr := strings.ToLower(err.Error())
			return strings.Contains(errStr, "temporary") ||
				strings.Contains(errStr, "retry") ||
				strings.Contains(errStr, "busy") ||
				strings.Contains(errStr, "locked") ||
				strings.Contains(errStr, "sharing violation")
		}
		return false
	}
}

// Error classification functions

// IsNotFound checks if the error is a "not found" error
func IsNotFound(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeNotFound
	}
	return false
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeValidation
	}
	return false
}

// IsMalformedPayload checks if the error is a malformed payload error
func IsMalformedPayload(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeMalformedPayload
	}
	return false
}

// IsTooLarge checks if the error is a size cap error
func IsTooLarge(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeTooLarge
	}
	return false
}

// IsPermission checks if the error is a permission error
func IsPermission(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodePermission
	}
	return false
}

// IsBusy checks if the error is a busy/locked error
func IsBusy(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeBusy
	}
	return false
}

// IsTimeout checks if the error is a "timeout" error
func IsTimeout(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeTimeout
	}
	return false
}

// IsReadinessTimeout checks if the error is a readiness stall error
func IsReadinessTimeout(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeReadinessTimeout
	}
	return false
}

// IsUnsupported checks if the error reports a missing platform capability
func IsUnsupported(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeUnsupported
	}
	return false
}

// IsCancelled checks if the error reports a user-cancelled dialog
func IsCancelled(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeCancelled
	}
	return false
}

// IsConnection checks if the error is a storage connection error
func IsConnection(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeConnection
	}
	return false
}

// IsDuplicate checks if the error is a duplicate entry error
func IsDuplicate(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeDuplicate
	}
	return false
}

// IsConstraint checks if the error is a constraint violation
func IsConstraint(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeConstraint
	}
	return false
}

// IsCorruption checks if the error reports a corrupted database file
func IsCorruption(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeCorruption
	}
	return false
}

// IsDiskSpace checks if the error reports insufficient disk space
func IsDiskSpace(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeDiskSpace
	}
	return false
}

// IsSchema checks if the error reports a schema or migration problem
func IsSchema(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeSchema
	}
	return false
}

// IsRetryable checks if the error is retryable
func IsRetryable(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Retryable
	}
	return false
}

// IsInternal checks if the error is an internal/API misuse error
func IsInternal(err error) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == ErrCodeInternal
	}
	return false
}
