package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for categorization
const (
	// Client errors (4xx)
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"

	// Server errors (5xx)
	ErrCodeInternal = "INTERNAL_ERROR"

	// Pipeline errors
	ErrCodeNavigationFailed = "NAVIGATION_FAILED"
	ErrCodeExtractionFailed = "EXTRACTION_FAILED"
	ErrCodeNoElements       = "NO_ELEMENTS_FOUND"
	ErrCodeGenerationFailed = "GENERATION_FAILED"
	ErrCodeWriteFailed      = "WRITE_FAILED"
)

// DomainError is a structured error for pipeline and API operations
type DomainError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for error comparison
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail attaches a key/value pair to the error
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code, message string, httpStatus int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Sentinel errors for comparison (used with errors.Is)
var (
	ErrInvalidInputVal = &DomainError{Code: ErrCodeValidation, Message: "invalid input"}
	ErrNotFoundVal     = &DomainError{Code: ErrCodeNotFound, Message: "not found"}
	ErrNoElementsVal   = &DomainError{Code: ErrCodeNoElements, Message: "no elements found"}
)

// ValidationError creates a validation domain error
func ValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    map[string]any{"field": field},
		HTTPStatus: http.StatusBadRequest,
		Err:        ErrInvalidInputVal,
	}
}

// BadRequestError creates a malformed-request domain error
func BadRequestError(message string) *DomainError {
	return NewError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// NavigationFailedError reports a page that could not be loaded
func NavigationFailedError(url string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeNavigationFailed,
		Message:    fmt.Sprintf("navigation failed: %s", url),
		Details:    map[string]any{"url": url},
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// ExtractionFailedError reports a crawl that produced no usable page data
func ExtractionFailedError(reason string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeExtractionFailed,
		Message:    fmt.Sprintf("extraction failed: %s", reason),
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// NoElementsError is the terminal failure when the crawl found nothing to
// analyze across every reachable page
func NoElementsError() *DomainError {
	return &DomainError{
		Code:       ErrCodeNoElements,
		Message:    "no interactable elements found on any page",
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        ErrNoElementsVal,
	}
}

// GenerationFailedError reports an artifact generation failure
func GenerationFailedError(artifact string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeGenerationFailed,
		Message:    fmt.Sprintf("generating %s failed", artifact),
		Details:    map[string]any{"artifact": artifact},
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// WriteFailedError reports an artifact that could not be persisted
func WriteFailedError(path string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeWriteFailed,
		Message:    fmt.Sprintf("writing %s failed", path),
		Details:    map[string]any{"path": path},
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// AsDomainError converts an error to DomainError if possible
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	if domainErr, ok := AsDomainError(err); ok && domainErr.HTTPStatus != 0 {
		return domainErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
func GetErrorCode(err error) string {
	if domainErr, ok := AsDomainError(err); ok {
		return domainErr.Code
	}
	return ErrCodeInternal
}
