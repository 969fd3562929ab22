package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every marketplace operation. Callers wrap them
// with context using %w and match with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrOutOfStock      = errors.New("out of stock")
	ErrSelfDeal        = errors.New("cannot trade with yourself")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrPersistence     = errors.New("persistence failure")
)

// PersistenceError wraps a storage failure so it stays distinguishable from
// domain errors.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Persistence wraps err unless it is nil or already one of the sentinels.
func Persistence(op string, err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsDomain reports whether err carries one of the domain sentinels.
func IsDomain(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrForbidden, ErrUnauthorized, ErrInvalidState,
		ErrInvalidQuantity, ErrOutOfStock, ErrSelfDeal, ErrInvalidInput, ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Invalid returns an ErrInvalidInput carrying a human readable reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
