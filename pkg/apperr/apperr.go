package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the four failure classes every ledger operation can hit.
// Callers match with errors.Is; handlers map them to HTTP statuses.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrPersistence      = errors.New("persistence failure")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func InvalidOperationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

// Persistence wraps a store-level failure so callers can distinguish it from
// domain errors without inspecting driver error types.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
