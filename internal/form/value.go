package form

import "strconv"

// Value is the current value of one field: a string for text-like, select
// and radio fields, a bool for checkboxes.
type Value struct {
	isBool  bool
	text    string
	checked bool
}

// TextValue returns a string value
func TextValue(s string) Value {
	return Value{text: s}
}

// BoolValue returns a boolean value
func BoolValue(b bool) Value {
	return Value{isBool: true, checked: b}
}

// IsBool reports whether the value holds a boolean
func (v Value) IsBool() bool { return v.isBool }

// Text returns the string held by v. Boolean values return "".
func (v Value) Text() string { return v.text }

// Bool returns the boolean held by v. String values return false.
func (v Value) Bool() bool { return v.checked }

// String renders the value for display. Booleans render as "true"/"false".
func (v Value) String() string {
	if v.isBool {
		return strconv.FormatBool(v.checked)
	}
	return v.text
}
