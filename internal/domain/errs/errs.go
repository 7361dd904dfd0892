// Package errs defines the error taxonomy shared by every service. Handlers
// map these onto HTTP statuses; nothing below the handler layer knows about
// status codes.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks missing or malformed caller input, including an
	// unresolvable branch.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized marks a role that is not permitted to perform the
	// requested operation.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound marks a lookup for which no stock row exists.
	ErrNotFound = errors.New("not found")
)

// InvalidInput builds an ErrInvalidInput with a caller-facing message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Unauthorized builds an ErrUnauthorized with a caller-facing message.
func Unauthorized(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

// NotFound builds an ErrNotFound with a caller-facing message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InsufficientStockError reports a failed stock reservation. Missing
// distinguishes "produce not stocked at this branch at all" from "stocked but
// the available quantity cannot cover the request".
type InsufficientStockError struct {
	ProduceName string
	Branch      string
	RequestedKg float64
	AvailableKg float64
	Missing     bool
}

func (e *InsufficientStockError) Error() string {
	if e.Missing {
		return fmt.Sprintf("no stock of %q at branch %s", e.ProduceName, e.Branch)
	}
	return fmt.Sprintf("insufficient stock of %q at branch %s: %.2f kg available, %.2f kg requested",
		e.ProduceName, e.Branch, e.AvailableKg, e.RequestedKg)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// StorageError wraps an unexpected persistence failure. The driver error is
// kept for logs; the caller-facing message stays generic.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for operation op. A nil err returns nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
