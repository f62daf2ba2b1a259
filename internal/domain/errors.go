package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure crossing the API boundary.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "NETWORK_ERROR"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindAPI          ErrorKind = "API_ERROR"
	KindUnknown      ErrorKind = "UNKNOWN_ERROR"
)

// Kind sentinels, matched by errors.Is against an *APIError.
var (
	ErrNetwork      = errors.New("network request failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrAPI          = errors.New("api error")
	ErrUnknown      = errors.New("unknown error")
)

// Store errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
)

var kindSentinels = map[ErrorKind]error{
	KindNetwork:      ErrNetwork,
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindNotFound:     ErrNotFound,
	KindValidation:   ErrValidation,
	KindAPI:          ErrAPI,
	KindUnknown:      ErrUnknown,
}

// APIError is the single error type surfaced by the client core.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Field   string
	Message string
	Details any
	Err     error
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *APIError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// NewValidationError builds a local pre-flight validation failure.
func NewValidationError(field, message string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Status:  400,
		Field:   field,
		Message: message,
	}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether a read failing with err may be retried:
// transport failures and 5xx responses only.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case KindNetwork:
		return true
	case KindAPI:
		return apiErr.Status >= 500
	default:
		return false
	}
}
