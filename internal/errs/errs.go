package errs

import (
	"errors"
	"fmt"
)

// ParseError is returned when a distance, duration or pace string is malformed.
// It aborts only the workout being compiled.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s %q: unrecognized format", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports structurally invalid plan data, like an unknown
// weekday or a missing required key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteError wraps a failed call to Garmin Connect.
type RemoteError struct {
	Op         string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": remote call failed"
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func Parse(field, value string, err error) error {
	return &ParseError{Field: field, Value: value, Err: err}
}

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsRemote(err error) bool {
	var target *RemoteError
	return errors.As(err, &target)
}
