package form

import (
	"fmt"
	"strings"
)

// Registry is the ordered set of field values of one form. Every declared
// field has an entry from creation on and fields are never added or removed.
//
// Registry is not safe for concurrent use; Session guards it.
type Registry struct {
	fields []Field
	index  map[string]int
	values []Value
}

// NewRegistry creates a registry with every field at its initial value
func NewRegistry(fields []Field) (*Registry, error) {
	r := &Registry{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		values: make([]Value, len(fields)),
	}
	copy(r.fields, fields)

	for i, f := range r.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := r.index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		if f.Kind.HasOptions() && len(f.Options) == 0 {
			return nil, fmt.Errorf("field %q: %s field needs options", f.Name, f.Kind)
		}
		r.index[f.Name] = i
		r.values[i] = f.zero()
	}
	return r, nil
}

// Fields returns the field descriptors in declaration order
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Field returns the descriptor of the named field
func (r *Registry) Field(name string) (Field, bool) {
	i, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

// Get returns the current value of the named field
func (r *Registry) Get(name string) (Value, error) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return r.values[i], nil
}

// Set replaces the value of one field. All other fields are unchanged.
func (r *Registry) Set(name string, v Value) error {
	i, ok := r.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f := r.fields[i]
	if v.IsBool() != f.Kind.IsBool() {
		return fmt.Errorf("%w: %s field %q", ErrWrongShape, f.Kind, name)
	}
	if f.Kind.HasOptions() && !f.HasOption(v.Text()) {
		return fmt.Errorf("%w: %q for field %q", ErrInvalidOption, v.Text(), name)
	}
	r.values[i] = v
	return nil
}

// Parse converts raw input to a value of the named field's kind
func (r *Registry) Parse(name, raw string) (Value, error) {
	f, ok := r.Field(name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if !f.Kind.IsBool() {
		return TextValue(raw), nil
	}
	b, err := ParseBool(raw)
	if err != nil {
		return Value{}, fmt.Errorf("field %q: %w", name, err)
	}
	return BoolValue(b), nil
}

// Each calls fn for every field in declaration order
func (r *Registry) Each(fn func(Field, Value)) {
	for i, f := range r.fields {
		fn(f, r.values[i])
	}
}

// ParseBool parses checkbox input. Browsers send "on" for a checked box and
// nothing for an unchecked one.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true, nil
	case "false", "off", "0", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a checkbox value", ErrWrongShape, raw)
}
