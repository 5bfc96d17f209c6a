package formschema

import (
	"fmt"
	"sort"
	"strings"
)

// Extension keys layered on top of the standard JSON Schema vocabulary. Other
// consumers can ignore them; this library round-trips them.
const (
	KeyLabel         = "label"
	KeyDescription   = "description"
	KeyFieldType     = "fieldType"
	KeyInputProps    = "inputProps"
	KeyOrder         = "order"
	KeyStepGroup     = "stepGroup"
	KeySteps         = "steps"
	KeyStepGroupMap  = "stepGroupMap"
	KeyFormatMinimum = "formatMinimum"
	KeyFormatMaximum = "formatMaximum"
)

// Step identifies one page of a multi-step form. A steps array is only present
// when a form has two or more pages; single-step forms carry no step metadata
// at all.
type Step struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Property describes a single field: standard JSON Schema keywords plus the UI
// extension keys. A property of type "object" may carry both its own metadata
// (Label, Description, ...) and nested child properties that happen to share
// those names; the two are distinct struct members here and must stay distinct
// through every conversion.
type Property struct {
	Type        string              `json:"type,omitempty"`
	Format      string              `json:"format,omitempty"`
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Pattern     string              `json:"pattern,omitempty"`
	Enum        []any               `json:"enum,omitempty"`
	Default     any                 `json:"default,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
	Items       *Property           `json:"items,omitempty"`

	// UI extension keys.
	Label         string         `json:"label,omitempty"`
	FieldType     string         `json:"fieldType,omitempty"`
	Placeholder   string         `json:"placeholder,omitempty"`
	InputProps    map[string]any `json:"inputProps,omitempty"`
	Order         *int           `json:"order,omitempty"`
	StepGroup     *int           `json:"stepGroup,omitempty"`
	FormatMinimum string         `json:"formatMinimum,omitempty"`
	FormatMaximum string         `json:"formatMaximum,omitempty"`
}

// Document is the persisted interchange format: an object schema with optional
// multi-step metadata at the root.
type Document struct {
	Schema       string              `json:"$schema,omitempty"`
	Title        string              `json:"title,omitempty"`
	Description  string              `json:"description,omitempty"`
	Type         string              `json:"type"`
	Properties   map[string]Property `json:"properties"`
	Required     []string            `json:"required,omitempty"`
	Steps        []Step              `json:"steps,omitempty"`
	StepGroupMap map[string]int      `json:"stepGroupMap,omitempty"`

	// propertyOrder preserves the key order of the source document for
	// display. It never affects semantics.
	propertyOrder []string
}

// NewDocument constructs an empty object document.
func NewDocument() Document {
	return Document{
		Type:       "object",
		Properties: make(map[string]Property),
	}
}

// SetProperty adds or replaces a property, recording insertion order for new
// keys.
func (d *Document) SetProperty(key string, prop Property) {
	if d.Properties == nil {
		d.Properties = make(map[string]Property)
	}
	if _, exists := d.Properties[key]; !exists {
		d.propertyOrder = append(d.propertyOrder, key)
	}
	d.Properties[key] = prop
}

// PropertyKeys returns the document's property keys in display order: source
// order when known, sorted otherwise. Keys added via SetProperty extend the
// recorded order.
func (d Document) PropertyKeys() []string {
	if len(d.Properties) == 0 {
		return nil
	}
	keys := make([]string, 0, len(d.Properties))
	seen := make(map[string]struct{}, len(d.Properties))
	for _, key := range d.propertyOrder {
		if _, ok := d.Properties[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	rest := make([]string, 0, len(d.Properties)-len(keys))
	for key := range d.Properties {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// IsRequired reports whether key appears in the document's required set.
func (d Document) IsRequired(key string) bool {
	for _, name := range d.Required {
		if name == key {
			return true
		}
	}
	return false
}

// StepAssignments resolves the field-to-step mapping. An explicit root-level
// stepGroupMap always wins; per-property stepGroup annotations are the
// fallback derivation. Both representations are preserved on the document.
func (d Document) StepAssignments() map[string]int {
	if len(d.StepGroupMap) > 0 {
		out := make(map[string]int, len(d.StepGroupMap))
		for key, idx := range d.StepGroupMap {
			out[key] = idx
		}
		return out
	}
	out := make(map[string]int)
	for key, prop := range d.Properties {
		if prop.StepGroup != nil {
			out[key] = *prop.StepGroup
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Stepped reports whether the document describes a multi-step form.
func (d Document) Stepped() bool {
	return len(d.Steps) > 1
}

// CheckStepReferences verifies that every step assignment references a
// top-level property. Nested children are never independently step-assigned.
func (d Document) CheckStepReferences() error {
	var missing []string
	for key := range d.StepGroupMap {
		if _, ok := d.Properties[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("formschema: stepGroupMap references unknown properties: %s", strings.Join(missing, ", "))
}

// Pick returns a new document restricted to the supplied top-level keys,
// keeping required entries and per-property annotations for the surviving
// fields. Step metadata is dropped: the result is a single-step sub-schema.
func (d Document) Pick(keys ...string) Document {
	allowed := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		allowed[key] = struct{}{}
	}

	out := NewDocument()
	out.Schema = d.Schema
	for _, key := range d.PropertyKeys() {
		if _, ok := allowed[key]; !ok {
			continue
		}
		prop := d.Properties[key]
		prop.StepGroup = nil
		out.SetProperty(key, prop)
	}
	for _, name := range d.Required {
		if _, ok := allowed[name]; !ok {
			continue
		}
		if _, exists := out.Properties[name]; exists {
			out.Required = append(out.Required, name)
		}
	}
	return out
}
