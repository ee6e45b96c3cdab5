package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode names a class of boundary failure.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a malformed or incomplete request.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUndefinedTemporalContent indicates the expression carries no date.
	// It renders as sentinels, never as an error body.
	ErrCodeUndefinedTemporalContent ErrorCode = "UNDEFINED_TEMPORAL_CONTENT"
	// ErrCodeInterpretationFailed indicates every stage failed to produce a date.
	ErrCodeInterpretationFailed ErrorCode = "INTERPRETATION_FAILED"
	// ErrCodeUpstreamFailure indicates the language model was unavailable.
	ErrCodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	// ErrCodeUnauthorized indicates a missing or wrong API key.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates the client exceeded its request rate.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ResolverError is a structured boundary error.
type ResolverError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *ResolverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ResolverError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *ResolverError) WithContext(key string, value any) *ResolverError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// HTTPStatus maps the code to the status the API answers with.
// Interpretation failures answer 200 with an error body.
func (e *ResolverError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeUndefinedTemporalContent, ErrCodeInterpretationFailed:
		return http.StatusOK
	case ErrCodeUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ResolverError {
	return &ResolverError{Code: ErrCodeInvalidArgument, Message: msg}
}

// InterpretationFailed creates the error returned when no stage resolved the expression.
func InterpretationFailed(msg string) *ResolverError {
	return &ResolverError{Code: ErrCodeInterpretationFailed, Message: msg}
}

// UpstreamFailure wraps a model failure.
func UpstreamFailure(msg string, cause error) *ResolverError {
	return &ResolverError{Code: ErrCodeUpstreamFailure, Message: msg, Cause: cause}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *ResolverError {
	return &ResolverError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *ResolverError {
	return &ResolverError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *ResolverError {
	return &ResolverError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with a code.
func Wrap(cause error, code ErrorCode, msg string) *ResolverError {
	return &ResolverError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if err, or any error it wraps, carries code.
func IsCode(err error, code ErrorCode) bool {
	var re *ResolverError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns defaultCode if err is not a ResolverError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var re *ResolverError
	if errors.As(err, &re) {
		return re.Code
	}
	return defaultCode
}
