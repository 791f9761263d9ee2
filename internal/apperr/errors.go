package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Expected business outcomes. Services return these (usually wrapped with
// fmt.Errorf("...: %w", ...)) and handlers map them to HTTP status codes via
// Status. Anything that does not match is infrastructure failure and maps
// to 500.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrNoSlot              = errors.New("no matching coach slot")
	ErrLocked              = errors.New("booking can no longer be changed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDuplicateRedemption = errors.New("booking already redeemed")
	ErrDuplicatePending    = errors.New("pending request already exists for this target")
	ErrAlreadyResolved     = errors.New("request already resolved")
	ErrAlreadyClosed       = errors.New("order already closed")
	ErrNotRefundable       = errors.New("payment is not refundable")
	ErrInternal            = errors.New("internal error")
)

// Validationf wraps ErrValidation with a caller-facing detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Status maps an error to the HTTP status code the API layer should return.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrLocked):
		return http.StatusLocked
	case errors.Is(err, ErrNoSlot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrDuplicateRedemption),
		errors.Is(err, ErrDuplicatePending),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrAlreadyClosed),
		errors.Is(err, ErrNotRefundable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsExpected reports whether err is one of the typed business outcomes, as
// opposed to an infrastructure failure.
func IsExpected(err error) bool {
	return Status(err) != http.StatusInternalServerError
}
