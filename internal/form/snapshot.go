package form

// Row is one line of the confirmation table
type Row struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Snapshot is a read-only copy of a registry taken at a successful
// submission, one row per field in declaration order.
type Snapshot struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// TakeSnapshot copies the current values of r
func TakeSnapshot(r *Registry) Snapshot {
	s := Snapshot{Title: ConfirmationTitle}
	r.Each(func(f Field, v Value) {
		s.Rows = append(s.Rows, Row{Name: f.Name, Label: f.Label, Value: v.String()})
	})
	return s
}

// Value returns the value of the named row
func (s Snapshot) Value(name string) (string, bool) {
	for _, row := range s.Rows {
		if row.Name == name {
			return row.Value, true
		}
	}
	return "", false
}

// Empty reports whether the snapshot holds no rows
func (s Snapshot) Empty() bool {
	return len(s.Rows) == 0
}
