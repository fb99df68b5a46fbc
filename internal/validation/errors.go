package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldError reports a validation failure on a single field.
type FieldError struct {
	Field   string // Field name (e.g. "emailInput")
	Message string // Human-readable message shown to the user
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError creates a FieldError for the given field
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// Check runs fn against value and returns a *FieldError when it fails.
// A nil fn always passes.
func Check(field string, fn Func, value string) error {
	if fn == nil {
		return nil
	}
	if msg := fn(value); msg != "" {
		return NewFieldError(field, msg)
	}
	return nil
}

// IsFieldError checks if an error is (or wraps) a FieldError
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

// AsSurveyValidator adapts fn to the func(any) error shape used by prompt
// libraries. Non-string answers pass untouched.
func AsSurveyValidator(fn Func) func(any) error {
	return func(ans any) error {
		s, ok := ans.(string)
		if !ok {
			return nil
		}
		if msg := fn(s); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

// FormatFieldErrors formats a name → message map into a user-friendly block,
// sorted by field name for stable output.
func FormatFieldErrors(errs map[string]string) string {
	if len(errs) == 0 {
		return "No validation errors"
	}

	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Form validation failed with %d error(s):\n", len(errs)))
	for i, name := range names {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, name, errs[name]))
	}
	return sb.String()
}
