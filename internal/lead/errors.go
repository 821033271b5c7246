package lead

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingInformation is reported when a booking is submitted without a valid
// name, phone number and service.
var ErrMissingInformation = errors.New("lead: missing information")

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[Field]string

// ValidationError carries field-level messages. Err, when set, is the condition
// the failure represents (for example ErrMissingInformation on submit).
type ValidationError struct {
	Fields FieldErrors
	Err    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	prefix := "lead: invalid"
	if e.Err != nil {
		prefix = e.Err.Error()
	}
	return fmt.Sprintf("%s [%s]", prefix, strings.Join(keys, ", "))
}

// Unwrap exposes the underlying condition.
func (e *ValidationError) Unwrap() error { return e.Err }

// Message returns the message recorded for field, if any.
func (e *ValidationError) Message(f Field) string {
	if e == nil {
		return ""
	}
	return e.Fields[f]
}

// Error implements the error interface so a bare field map can be returned.
func (f FieldErrors) Error() string {
	return (&ValidationError{Fields: f}).Error()
}
