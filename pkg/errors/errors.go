package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable business error code surfaced to clients.
type ErrorCode string

const (
	ErrPermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrInvalidPeriod    ErrorCode = "INVALID_PERIOD"
	ErrInvalidSeverity  ErrorCode = "INVALID_SEVERITY"
	ErrOverlap          ErrorCode = "OVERLAP"
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrQuotaExceeded    ErrorCode = "QUOTA_EXCEEDED"
	ErrBadRequest       ErrorCode = "BAD_REQUEST"
	ErrInternal         ErrorCode = "INTERNAL"
)

// statusByCode is the single dispatch table mapping business codes to HTTP
// statuses. Every new ErrorCode needs an entry here; StatusOf falls back to
// 500 so an unmapped code is loud in tests rather than silently a 200.
var statusByCode = map[ErrorCode]int{
	ErrPermissionDenied: http.StatusForbidden,
	ErrInvalidPeriod:    http.StatusBadRequest,
	ErrInvalidSeverity:  http.StatusBadRequest,
	ErrOverlap:          http.StatusBadRequest,
	ErrNotFound:         http.StatusNotFound,
	ErrQuotaExceeded:    http.StatusBadRequest,
	ErrBadRequest:       http.StatusBadRequest,
	ErrInternal:         http.StatusInternalServerError,
}

// StatusOf returns the HTTP status for a business code.
func StatusOf(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error onto its HTTP status via the dispatch table.
func (e *AppError) StatusCode() int {
	return StatusOf(e.Code)
}

// Is lets errors.Is match on the business code.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func PermissionDenied(message string) *AppError {
	return &AppError{Code: ErrPermissionDenied, Message: message}
}

func InvalidPeriod(message string) *AppError {
	return &AppError{Code: ErrInvalidPeriod, Message: message}
}

func InvalidSeverity(message string) *AppError {
	return &AppError{Code: ErrInvalidSeverity, Message: message}
}

func Overlap(message string) *AppError {
	return &AppError{Code: ErrOverlap, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func QuotaExceeded(message string) *AppError {
	return &AppError{Code: ErrQuotaExceeded, Message: message}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{Code: ErrBadRequest, Message: message, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}
