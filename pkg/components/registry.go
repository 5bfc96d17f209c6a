// Package components defines field-type definitions and the ordered registry
// that dispatches JSON Schema properties to them. Registries are immutable
// ordered lists passed explicitly into every conversion call; there is no
// ambient global registration, so the same document can be parsed differently
// by different callers without cross-talk.
package components

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/vschema"
)

// Backing types a component can validate against.
const (
	BackingString  = "string"
	BackingNumber  = "number"
	BackingBoolean = "boolean"
	BackingDate    = "date"
	BackingEnum    = "enum"
)

// Definition describes one field type: its native validation shape, its JSON
// Schema projection and the inverse parse. ToJSONSchema must be the left
// inverse of FromJSONSchema for every prop combination the edit panel can
// produce, modulo documented lossy conversions such as the newline-joined
// options list.
type Definition struct {
	// Type is the unique component tag ("text", "email", ...).
	Type string
	// BackingType names the scalar the component validates as.
	BackingType string
	// DefaultProps seeds a freshly dropped field.
	DefaultProps model.Props
	// PropertiesSchema validates the component's edit panel. It lives in a
	// separate namespace from the target form schema; its field names never
	// leak into converted documents.
	PropertiesSchema *vschema.Schema
	// ToJSONSchema projects typed props into a JSON Schema property.
	ToJSONSchema func(props model.Props, required bool) formschema.Property
	// FromJSONSchema returns nil when the property does not structurally
	// match this component, letting dispatch fall through to later entries.
	FromJSONSchema func(prop formschema.Property, key string, required bool) *model.Field
}

// Diagnostic records a non-fatal condition raised while converting a
// document. Conversions follow a partial-success policy: they collect
// diagnostics and keep going instead of failing the whole parse.
type Diagnostic struct {
	Path    string `json:"path,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Registry is an immutable ordered list of definitions. Order is significant:
// FromJSONSchema dispatch tries entries front to back and the first non-nil
// match wins, so definitions must be ordered most-specific-first (email
// before text) to keep a generic type from swallowing a specific one.
type Registry struct {
	defs   []Definition
	byType map[string]int
}

// NewRegistry builds a registry from an ordered definition list. Duplicate
// type tags are rejected.
func NewRegistry(defs ...Definition) (Registry, error) {
	reg := Registry{
		defs:   make([]Definition, 0, len(defs)),
		byType: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		name := strings.TrimSpace(def.Type)
		if name == "" {
			return Registry{}, fmt.Errorf("components: definition type is required")
		}
		if def.ToJSONSchema == nil || def.FromJSONSchema == nil {
			return Registry{}, fmt.Errorf("components: definition %q must convert both directions", name)
		}
		if _, exists := reg.byType[name]; exists {
			return Registry{}, fmt.Errorf("components: definition %q already registered", name)
		}
		def.Type = name
		reg.byType[name] = len(reg.defs)
		reg.defs = append(reg.defs, def)
	}
	return reg, nil
}

// MustNewRegistry panics on registration failure. Useful for init-time wiring.
func MustNewRegistry(defs ...Definition) Registry {
	reg, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return reg
}

// With returns a new registry with extra definitions appended after the
// receiver's. The receiver is left untouched.
func (r Registry) With(defs ...Definition) (Registry, error) {
	combined := make([]Definition, 0, len(r.defs)+len(defs))
	combined = append(combined, r.defs...)
	combined = append(combined, defs...)
	return NewRegistry(combined...)
}

// Lookup fetches a definition by component tag.
func (r Registry) Lookup(typeName string) (Definition, bool) {
	idx, ok := r.byType[strings.TrimSpace(typeName)]
	if !ok {
		return Definition{}, false
	}
	return r.defs[idx], true
}

// Definitions returns the ordered definition list.
func (r Registry) Definitions() []Definition {
	return append([]Definition(nil), r.defs...)
}

// Types returns the component tags in registry order.
func (r Registry) Types() []string {
	names := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		names = append(names, def.Type)
	}
	return names
}

// Match dispatches a property through the ordered definition list and returns
// the first non-nil parse. The boolean reports whether any definition
// matched; callers decide how to degrade when nothing does.
func (r Registry) Match(prop formschema.Property, key string, required bool) (model.Field, bool) {
	for _, def := range r.defs {
		if field := def.FromJSONSchema(prop, key, required); field != nil {
			return *field, true
		}
	}
	return model.Field{}, false
}

// Fallback synthesizes the generic text field used when no definition
// matches a property.
func Fallback(prop formschema.Property, key string, required bool) model.Field {
	return model.Field{
		ID:   key,
		Type: "text",
		Props: model.Props{
			Label:       labelOrTitle(prop),
			Description: prop.Description,
			Placeholder: prop.Placeholder,
			Required:    required,
		},
	}
}

func labelOrTitle(prop formschema.Property) string {
	if prop.Label != "" {
		return prop.Label
	}
	return prop.Title
}
