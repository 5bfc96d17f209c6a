// Package model defines the in-memory representation of a form under
// construction: a flat list of fields, each optionally nesting children or an
// array item template, and optionally tagged with a step group.
package model

// Props holds the type-specific edit-panel values for one field. Not every
// component uses every member; each component definition documents which
// props it reads.
type Props struct {
	Label        string   `json:"label,omitempty"`
	Description  string   `json:"description,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty"`
	Required     bool     `json:"required,omitempty"`
	DefaultValue any      `json:"defaultValue,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	// Options is the newline-joined option list used by select and radio
	// edit panels. The JSON Schema projection stores it as a true enum
	// array; the two representations convert without loss.
	Options string `json:"options,omitempty"`
	Rows    int    `json:"rows,omitempty"`
}

// Field is one canvas entry. Children belong to object-typed fields and
// ItemTemplate describes one array item's shape; both are owned exclusively
// by their parent and have no existence outside it.
type Field struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Props        Props   `json:"props"`
	Children     []Field `json:"children,omitempty"`
	ItemTemplate []Field `json:"itemTemplate,omitempty"`
	StepGroup    *int    `json:"stepGroup,omitempty"`
}

// Clone returns a deep copy of the field and its nested trees.
func (f Field) Clone() Field {
	dup := f
	if f.StepGroup != nil {
		idx := *f.StepGroup
		dup.StepGroup = &idx
	}
	dup.Children = CloneFields(f.Children)
	dup.ItemTemplate = CloneFields(f.ItemTemplate)
	return dup
}

// CloneFields deep-copies a field list.
func CloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	for idx, field := range fields {
		out[idx] = field.Clone()
	}
	return out
}
