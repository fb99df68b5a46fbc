package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/muurk/contactform/internal/validation"
)

var (
	// ErrUnknownField is returned when a change names an undeclared field
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidOption is returned when a select or radio value is not a declared option
	ErrInvalidOption = errors.New("invalid option")
	// ErrWrongShape is returned when a value does not match the field kind
	ErrWrongShape = errors.New("value does not match field kind")
	// ErrUnknownProfile is returned by Lookup for an undeclared profile name
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrClosed is returned by Session methods after Close
	ErrClosed = errors.New("session closed")
)

// Errors maps field names to their current validation message. A field
// without an entry is valid.
type Errors map[string]string

// Clone returns a copy of e
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Names returns the field names with errors, sorted
func (e Errors) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldErrors converts e to validation.FieldError values, sorted by field
func (e Errors) FieldErrors() []*validation.FieldError {
	out := make([]*validation.FieldError, 0, len(e))
	for _, name := range e.Names() {
		out = append(out, validation.NewFieldError(name, e[name]))
	}
	return out
}

// ErrorKind classifies a rejected submission
type ErrorKind int

const (
	// ErrUnfilled means a required field was left empty
	ErrUnfilled ErrorKind = iota + 1
	// ErrInvalid means one or more validators failed
	ErrInvalid
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case ErrUnfilled:
		return "unfilled"
	case ErrInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// SubmitError is returned by Session.Submit when the form is not submittable
type SubmitError struct {
	Kind     ErrorKind
	Errors   Errors   // validator failures (ErrInvalid)
	Unfilled []string // required fields left empty (ErrUnfilled)
	Alert    string   // notice shown for ErrUnfilled
}

// Error implements the error interface
func (e *SubmitError) Error() string {
	switch e.Kind {
	case ErrUnfilled:
		return fmt.Sprintf("submission rejected: unfilled fields: %s", strings.Join(e.Unfilled, ", "))
	default:
		parts := make([]string, 0, len(e.Errors))
		for _, name := range e.Errors.Names() {
			parts = append(parts, fmt.Sprintf("%s: %s", name, e.Errors[name]))
		}
		return fmt.Sprintf("submission rejected: %s", strings.Join(parts, "; "))
	}
}

// IsSubmitError checks if an error is (or wraps) a SubmitError
func IsSubmitError(err error) bool {
	var se *SubmitError
	return errors.As(err, &se)
}
