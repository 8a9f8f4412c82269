package sm

import (
	"errors"
	"fmt"
)

// InvariantError reports a malformed composition or a machine driven outside
// its contract. These are programmer errors: they are raised with panic and
// are not expected to be handled inside combinators.
type InvariantError struct {
	// Code identifies the violation category.
	Code InvariantCode

	// Message is a human-readable description.
	Message string
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// ErrCodeMissingInput indicates a machine that needs an input got none.
	ErrCodeMissingInput InvariantCode = "MISSING_INPUT"

	// ErrCodeNoOutput indicates a value was required where the machine
	// produced none (e.g. sampling a transduced signal).
	ErrCodeNoOutput InvariantCode = "NO_OUTPUT"

	// ErrCodeLengthMismatch indicates vectors of different lengths were combined.
	ErrCodeLengthMismatch InvariantCode = "LENGTH_MISMATCH"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Violation panics with an *InvariantError.
func Violation(code InvariantCode, format string, args ...any) {
	panic(&InvariantError{Code: code, Message: fmt.Sprintf(format, args...)})
}

// IsInvariantError returns true if err is or wraps an *InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// HasCode returns true if err is or wraps an *InvariantError with the given code.
func HasCode(err error, code InvariantCode) bool {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// Recover converts a panic carrying an error into a returned error.
// It must be deferred directly:
//
//	func drive() (err error) {
//	    defer sm.Recover(&err)
//	    ...
//	}
//
// Panics with non-error values are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok {
		*errp = err
		return
	}
	panic(r)
}
