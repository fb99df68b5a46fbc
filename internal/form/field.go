package form

import (
	"strings"

	"github.com/muurk/contactform/internal/validation"
)

// Option is one choice of a select or radio field
type Option struct {
	Value string
	Label string
}

// Required is the rule a field must satisfy for a submission to count as filled
type Required int

const (
	// NotRequired never blocks a submission
	NotRequired Required = iota
	// RequireNonEmpty needs a non-empty string
	RequireNonEmpty
	// RequireNonBlank needs a string that is not empty after trimming
	RequireNonBlank
	// RequireOption needs a declared option with a non-empty value. An
	// option with an empty value is a placeholder.
	RequireOption
	// RequirePresence is satisfied by any value. Checkboxes always have one.
	RequirePresence
)

// Field describes one input of a form
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Options     []Option // select and radio only
	Default     string   // initial value for string kinds
	Required    Required
	Validate    validation.Func // run on every change and on submit
	Placeholder string
	Help        string
}

// HasOption reports whether value is one of the field's declared options
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the label of the option with the given value, or the
// value itself when no option matches.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// Filled reports whether v satisfies the field's Required rule
func (f Field) Filled(v Value) bool {
	switch f.Required {
	case NotRequired, RequirePresence:
		return true
	case RequireNonEmpty:
		return v.Text() != ""
	case RequireNonBlank:
		return strings.TrimSpace(v.Text()) != ""
	case RequireOption:
		return v.Text() != "" && f.HasOption(v.Text())
	default:
		return true
	}
}

// Check runs the field's validator against v. Boolean fields have no
// validator and always pass.
func (f Field) Check(v Value) string {
	if f.Validate == nil || f.Kind.IsBool() {
		return ""
	}
	return f.Validate(v.Text())
}

// zero returns the initial value of the field
func (f Field) zero() Value {
	if f.Kind.IsBool() {
		return BoolValue(false)
	}
	return TextValue(f.Default)
}
