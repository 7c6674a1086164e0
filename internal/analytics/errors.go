package analytics

import (
	"errors"
	"fmt"
)

// ValidationError indicates a malformed or incomplete request. It is raised
// before any SQL is generated.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// QueryExecutionError carries the store's own message for a rejected query.
type QueryExecutionError struct {
	Message string
	SQL     string
	Err     error
}

func (e *QueryExecutionError) Error() string { return e.Message }

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// ErrStaleResult is returned by Session.Submit when a newer request was
// started before this one finished. The result was discarded.
var ErrStaleResult = errors.New("result superseded by a newer request")

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
