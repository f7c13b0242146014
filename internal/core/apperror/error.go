// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeMissingInput = "MISSING_INPUT"

	// Business rule violations (422)
	CodeBusinessRule         = "BUSINESS_RULE_VIOLATION"
	CodeConfiguration        = "CONFIGURATION_ERROR"
	CodeUnsupportedRateModel = "UNSUPPORTED_RATE_MODEL"
	CodeInvalidLine          = "INVALID_LINE"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeDocumentSubmitted    = "DOCUMENT_ALREADY_SUBMITTED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict               = "CONFLICT"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeLocked                 = "RESOURCE_LOCKED"
)

// AppError is the standard error type for the ledger.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field, line number, inputs)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMissingInput reports a required pricing input that is absent or zero.
func NewMissingInput(field string) *AppError {
	return &AppError{
		Code:       CodeMissingInput,
		Message:    fmt.Sprintf("%s is required", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// NewConfiguration reports master data that is absent or incomplete.
func NewConfiguration(message string) *AppError {
	return &AppError{
		Code:       CodeConfiguration,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewUnsupportedRateModel reports a milk type with an unknown rate model.
func NewUnsupportedRateModel(model string) *AppError {
	return &AppError{
		Code:       CodeUnsupportedRateModel,
		Message:    fmt.Sprintf("Unsupported milk rate type: %s", model),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"rate_model": model},
	}
}

// NewInvalidLine reports a qualifying line that cannot be posted.
func NewInvalidLine(lineNo int, field string) *AppError {
	return &AppError{
		Code:       CodeInvalidLine,
		Message:    fmt.Sprintf("Row %d: %s is required", lineNo, field),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"line_no": lineNo, "field": field},
	}
}

// NewInvalidTransition reports a lifecycle move the state machine forbids.
func NewInvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("Cannot move document from %s to %s", from, to),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"from": from, "to": to},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewLocked is returned when a posting lock could not be obtained in time.
func NewLocked(key string) *AppError {
	return &AppError{
		Code:       CodeLocked,
		Message:    "Another posting for this item and warehouse is in progress",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"key": key},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsMissingInput checks if error is CodeMissingInput
func IsMissingInput(err error) bool { return hasCode(err, CodeMissingInput) }

// IsConfiguration checks if error is CodeConfiguration
func IsConfiguration(err error) bool { return hasCode(err, CodeConfiguration) }

// IsUnsupportedRateModel checks if error is CodeUnsupportedRateModel
func IsUnsupportedRateModel(err error) bool { return hasCode(err, CodeUnsupportedRateModel) }

// IsInvalidLine checks if error is CodeInvalidLine
func IsInvalidLine(err error) bool { return hasCode(err, CodeInvalidLine) }

// IsInvalidTransition checks if error is CodeInvalidTransition
func IsInvalidTransition(err error) bool { return hasCode(err, CodeInvalidTransition) }

// IsConcurrentModification checks if error is CodeConcurrentModification
func IsConcurrentModification(err error) bool { return hasCode(err, CodeConcurrentModification) }

// IsDuplicate checks if error is CodeDuplicate
func IsDuplicate(err error) bool { return hasCode(err, CodeDuplicate) }
