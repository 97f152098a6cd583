package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these
// sentinels; callers classify with errors.Is and front-ends map the kind to
// an HTTP status or exit code.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

// Validationf builds a ValidationError with a formatted message
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds a NotFoundError with a formatted message
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf builds a ConflictError with a formatted message
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Storagef wraps a persistence failure, keeping the cause in the chain
func Storagef(err error, op string) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
