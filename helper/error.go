package helper

import (
	"errors"
	"fmt"
	"strings"
)

// Error wraps an original error with the trace of operations it passed through.
type Error struct {
	Original error
	Trace    []string
}

// NewError wraps original with trace. If original already is an Error,
// trace is appended to its existing trace instead of nesting.
func NewError(trace string, original error) error {
	var err Error
	if errors.As(original, &err) {
		err.Trace = append(err.Trace, trace)
		return err
	}

	return Error{
		Original: original,
		Trace:    []string{trace},
	}
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("%v | Trace: %v", e.Original, strings.Join(e.Trace, ", "))
}

// Unwrap returns the original error so errors.Is and errors.As see through the trace
func (e Error) Unwrap() error {
	return e.Original
}
