package form

import "fmt"

// Kind is the input kind of a field
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindPassword
	KindTextarea
	KindSelect
	KindRadio
	KindCheckbox
)

var kindNames = map[Kind]string{
	KindText:     "text",
	KindEmail:    "email",
	KindPassword: "password",
	KindTextarea: "textarea",
	KindSelect:   "select",
	KindRadio:    "radio",
	KindCheckbox: "checkbox",
}

// String returns the HTML input type name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsBool reports whether values of this kind are booleans
func (k Kind) IsBool() bool {
	return k == KindCheckbox
}

// HasOptions reports whether the kind draws its value from declared options
func (k Kind) HasOptions() bool {
	return k == KindSelect || k == KindRadio
}
