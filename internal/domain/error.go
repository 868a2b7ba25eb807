package domain

import (
	"errors"
	"fmt"
)

// Application error codes.
// These map to HTTP status codes and determine user-facing messages.
const (
	ECONFLICT     = "conflict"     // 409 - Concurrent modification could not be resolved
	EINTERNAL     = "internal"     // 500 - Internal server error (hide details)
	EINVALID      = "invalid"      // 400 - Validation error (bad input)
	ENOTFOUND     = "not_found"    // 404 - Resource not found
	EUNAUTHORIZED = "unauthorized" // 401 - Authentication required
	EFORBIDDEN    = "forbidden"    // 403 - Authenticated but not permitted
	EOUTOFSTOCK   = "out_of_stock" // 400 - Requested quantity exceeds available stock
)

// Error represents an application error with a code and message.
// It implements the error interface and supports error wrapping.
type Error struct {
	// Code is a machine-readable error code (e.g., EINVALID, ENOTFOUND).
	Code string

	// Message is a human-readable error message safe to show to users.
	Message string

	// Op is the operation where the error occurred (e.g., "cart.add_item").
	// Used for debugging and logging, not shown to users.
	Op string

	// Err is the underlying error, if any. Used for error wrapping.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL for non-domain errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return EINTERNAL
}

// ErrorMessage extracts a user-facing message from an error.
// For internal errors, returns a generic message to avoid leaking details.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Code == EINTERNAL {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}

	// Unknown error type - hide details
	return "An internal error occurred. Please try again later."
}

// ErrorOp extracts the operation from an error (for logging).
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}

	return ""
}

// Errorf creates a new domain error with formatted message.
// Example: domain.Errorf(domain.EINVALID, "cart.add_item", "invalid product id: %d", id)
func Errorf(code, op, format string, args ...interface{}) error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsCode returns true if err has the given error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// NotFound creates a not found error for a resource.
// Example: domain.NotFound("product.get", "Product")
func NotFound(op, resource string) error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s not found.", resource),
	}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(op, message string) error {
	return &Error{
		Code:    EUNAUTHORIZED,
		Op:      op,
		Message: message,
	}
}

// Invalid creates a validation error for a single issue.
// Example: domain.Invalid("cart.add_item", "Quantity must be greater than 0.")
func Invalid(op, message string) error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: message,
	}
}

// OutOfStock creates a stock-bound violation error. The message always
// carries the currently available quantity so callers can surface it to
// the shopper.
func OutOfStock(op string, available int32) error {
	return &Error{
		Code:    EOUTOFSTOCK,
		Op:      op,
		Message: fmt.Sprintf("Insufficient stock: %d available.", available),
	}
}

// Internal creates an internal error (wraps underlying error).
// The message shown to users will be generic; the underlying error is for logging.
// Example: domain.Internal(err, "cart.add_item", "failed to persist cart item")
func Internal(err error, op, message string) error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ErrTxSerialization marks a transaction that failed because of concurrent
// access (serialization failure or deadlock). Callers retry a bounded number
// of times before surfacing ECONFLICT.
var ErrTxSerialization = &Error{
	Code:    ECONFLICT,
	Message: "The operation conflicted with a concurrent update.",
}

// IsRetryable reports whether err is a transient transaction failure worth
// retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTxSerialization)
}
