// Package errs defines the failure taxonomy shared by all domain services.
// Services return these sentinels (usually wrapped with detail via %w) and
// never log or format user-facing messages; the HTTP layer translates them.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput marks a missing or malformed field. Recoverable; the
	// caller must correct the request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPatientNotFound marks a patient reference that did not resolve.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrTestNotFound marks a lab test code with no active catalog entry.
	ErrTestNotFound = errors.New("lab test not found")

	// ErrNotFound marks any other record lookup that did not resolve.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateIdentifier marks a uniqueness violation on create.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrStoreUnavailable marks a transaction or connection failure. Fatal to
	// the current request only, never to the process.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Invalid wraps ErrInvalidInput with detail about the offending field.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Store wraps ErrStoreUnavailable around a driver-level error.
func Store(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// HTTPStatus maps a domain failure to its transport status code. Unrecognized
// errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrTestNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateIdentifier):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
