package errors

import (
	"net/http"

	"bazaar/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Is matches BaseErrors by business error code so errors.Is recognizes
// detail-enriched copies of the predefined values.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Asset-related errors. A soft-deleted asset is reported exactly like a
	// missing one so callers cannot probe for deleted listings.
	ErrAssetNotFound = NewBaseError(
		http.StatusNotFound,
		"ASSET_NOT_FOUND",
		"Asset not found",
		"",
	)

	ErrAssetNotPurchasable = NewBaseError(
		http.StatusBadRequest,
		"ASSET_NOT_PURCHASABLE",
		"Asset is not available for purchase",
		"",
	)

	// Entitlement-related errors
	ErrNotOwned = NewBaseError(
		http.StatusForbidden,
		"NOT_OWNED",
		"Asset has not been purchased",
		"",
	)

	ErrPaymentNotConfirmed = NewBaseError(
		http.StatusForbidden,
		"PAYMENT_NOT_CONFIRMED",
		"Payment has not been confirmed yet",
		"",
	)

	ErrPaymentFailed = NewBaseError(
		http.StatusForbidden,
		"PAYMENT_FAILED",
		"Payment failed, a new purchase is required",
		"",
	)

	// Checkout-related errors
	ErrSelfPurchase = NewBaseError(
		http.StatusBadRequest,
		"SELF_PURCHASE",
		"Cannot purchase own asset",
		"",
	)

	ErrAlreadyOwned = NewBaseError(
		http.StatusConflict,
		"ALREADY_OWNED",
		"Asset is already owned",
		"",
	)

	// Download-related errors
	ErrDownloadRateLimited = NewBaseError(
		http.StatusConflict,
		"DOWNLOAD_RATE_LIMITED",
		"Download limit reached for this asset, try again later",
		"",
	)

	ErrInvalidExpiry = NewBaseError(
		http.StatusBadRequest,
		"INVALID_EXPIRY",
		"Requested link expiry is out of bounds",
		"",
	)

	// Webhook-related errors
	ErrWebhookSignature = NewBaseError(
		http.StatusBadRequest,
		"WEBHOOK_SIGNATURE_INVALID",
		"Webhook signature verification failed",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// General errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"Order not found",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// ExternalDependencyError represents a failed or timed-out call to an external
// collaborator (object store, payment processor). It maps to 502 rather than
// 400 because the caller may retry it with backoff.
type ExternalDependencyError struct {
	dependency string
	err        error
}

// NewExternalDependencyError creates an error for a failed external call.
func NewExternalDependencyError(dependency string, err error) AppError {
	return &ExternalDependencyError{
		dependency: dependency,
		err:        err,
	}
}

// Error implements the error interface
func (e *ExternalDependencyError) Error() string {
	return errors.Wrapf(e.err, "%s call failed", e.dependency).Error()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ExternalDependencyError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *ExternalDependencyError) HTTPCode() int {
	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *ExternalDependencyError) ErrorCode() string {
	return "EXTERNAL_DEPENDENCY_FAILURE"
}

// Message returns the user-friendly error message
func (e *ExternalDependencyError) Message() string {
	return "An external dependency failed, please retry later"
}

// Details returns detailed error information
func (e *ExternalDependencyError) Details() string {
	return e.dependency
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
