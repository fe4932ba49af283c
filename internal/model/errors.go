// Package model holds the entities shared by the store implementations,
// the service layer and the HTTP handlers, together with the error
// taxonomy every layer reports with.
package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced id does not resolve.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidArgument covers missing selections, non-positive quantities
// and malformed input.  It is always raised before the store is touched.
// Handlers translate it into HTTP 400.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrConflict signals that a write cannot proceed because of existing
// state, e.g. a duplicate game assignment under the reject policy or a
// catalog entry that is still referenced.  Handlers translate it into 409.
var ErrConflict = errors.New("conflict")

// ErrStoreFailure matches every *StoreError via errors.Is.
var ErrStoreFailure = errors.New("store failure")

// StoreError wraps an opaque failure reported by the persistent store.
// The underlying message is preserved verbatim.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStoreFailure) match any StoreError.
func (e *StoreError) Is(target error) bool { return target == ErrStoreFailure }

// StoreFailure wraps err as a *StoreError unless it already belongs to
// the taxonomy (not found, invalid argument, conflict) or is nil.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrConflict) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// InvalidArgumentf builds an error wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// NotFoundf builds an error wrapping ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf builds an error wrapping ErrConflict.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
