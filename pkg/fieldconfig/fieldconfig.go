// Package fieldconfig derives per-field render configuration from a JSON
// Schema document. It is rebuilt on every schema change and never persisted.
//
// The load-bearing rule lives in the merge between a parent object's own
// metadata and its children: the metadata slots (label, description,
// inputProps, order, fieldType) are assigned first, and child entries only
// fill keys that are still unset. A child field literally named "description"
// must never replace the parent's help text, and vice versa.
package fieldconfig

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/formschema"
)

// Reserved metadata keys inside a flattened config entry. Child entries with
// these names lose the flat-map slot to the parent scalar; their configs stay
// reachable under Children.
const (
	SlotLabel       = "label"
	SlotDescription = "description"
	SlotInputProps  = "inputProps"
	SlotFieldType   = "fieldType"
	SlotOrder       = "order"
)

// FieldType is a resolved render hint: either a built-in component tag or a
// caller-supplied custom component.
type FieldType struct {
	Name string
	// Component is non-nil when the type resolved through the custom
	// component map; renderers invoke it instead of a built-in widget.
	Component any
}

// Config is the derived render configuration for one field. Children holds
// nested configs for object-typed fields, keyed by the child's own key.
type Config struct {
	Label       string
	Description string
	InputProps  map[string]any
	FieldType   *FieldType
	Order       *int
	Children    map[string]*Config
}

// Options configures a build pass.
type Options struct {
	// Components resolves built-in type tags. Zero value uses the default
	// registry.
	Components components.Registry
	// CustomComponents maps fieldType names to render components, extending
	// the built-in set.
	CustomComponents map[string]any
	// TypeOverrides is the stored field-type table consulted when a
	// property carries no explicit fieldType, keyed by property key.
	TypeOverrides map[string]string
}

// Build derives the full config map for a document. Unresolvable field types
// degrade to a diagnostic and default rendering; nothing here fails the form.
func Build(doc formschema.Document, opts Options) (map[string]*Config, []components.Diagnostic) {
	if len(opts.Components.Types()) == 0 {
		opts.Components = components.Builtin()
	}
	// Labels and help text can reach HTML renderers verbatim, so strip
	// anything beyond basic user-generated markup up front.
	sanitizer := bluemonday.UGCPolicy()

	configs := make(map[string]*Config, len(doc.Properties))
	var diags []components.Diagnostic
	for _, key := range doc.PropertyKeys() {
		cfg, propDiags := buildOne(doc.Properties[key], key, key, opts, sanitizer)
		diags = append(diags, propDiags...)
		configs[key] = cfg
	}
	return configs, diags
}

func buildOne(prop formschema.Property, key, path string, opts Options, sanitizer *bluemonday.Policy) (*Config, []components.Diagnostic) {
	cfg := &Config{}
	var diags []components.Diagnostic

	// 1. Label: explicit label, then standard title. Absence is fine; the
	// renderer beautifies the key instead.
	if prop.Label != "" {
		cfg.Label = sanitizer.Sanitize(prop.Label)
	} else if prop.Title != "" {
		cfg.Label = sanitizer.Sanitize(prop.Title)
	}

	// 2. Description comes only from the property's own description field,
	// never from a nested property sharing the name.
	if prop.Description != "" {
		cfg.Description = sanitizer.Sanitize(prop.Description)
	}

	// 3. inputProps: shallow copy, placeholder convenience, then the
	// default-value rule: a field with a schema-level default is filled
	// automatically and never presented as required.
	if len(prop.InputProps) > 0 {
		cfg.InputProps = make(map[string]any, len(prop.InputProps)+2)
		for name, value := range prop.InputProps {
			cfg.InputProps[name] = value
		}
	}
	if prop.Placeholder != "" {
		if cfg.InputProps == nil {
			cfg.InputProps = make(map[string]any, 1)
		}
		cfg.InputProps["placeholder"] = prop.Placeholder
	}
	if prop.Default != nil {
		if cfg.InputProps == nil {
			cfg.InputProps = make(map[string]any, 2)
		}
		cfg.InputProps["defaultValue"] = prop.Default
		cfg.InputProps["required"] = false
	}

	// 4. Order passes through verbatim.
	if prop.Order != nil {
		order := *prop.Order
		cfg.Order = &order
	}

	// 5. fieldType resolution: explicit, then stored override, then the
	// date auto-detect.
	resolved := prop.FieldType
	if resolved == "" {
		resolved = opts.TypeOverrides[key]
	}
	if resolved == "" && prop.Type == "string" && prop.Format == "date-time" {
		resolved = components.TypeDate
	}
	if resolved != "" {
		switch {
		case opts.CustomComponents[resolved] != nil:
			cfg.FieldType = &FieldType{Name: resolved, Component: opts.CustomComponents[resolved]}
		case hasBuiltin(opts.Components, resolved):
			cfg.FieldType = &FieldType{Name: resolved}
		default:
			diags = append(diags, components.Diagnostic{
				Path:    path,
				Code:    "unknown_field_type",
				Message: fmt.Sprintf("field type %q has no component; using default rendering", resolved),
			})
		}
	}

	// 6. Nested children build recursively. The flat-map merge happens in
	// Flatten; here child configs live under their own namespace.
	if len(prop.Properties) > 0 {
		cfg.Children = make(map[string]*Config, len(prop.Properties))
		for childKey, childProp := range prop.Properties {
			child, childDiags := buildOne(childProp, childKey, path+"."+childKey, opts, sanitizer)
			diags = append(diags, childDiags...)
			cfg.Children[childKey] = child
		}
	}
	return cfg, diags
}

func hasBuiltin(reg components.Registry, name string) bool {
	_, ok := reg.Lookup(name)
	return ok
}

// Flatten renders the config into the single-map shape renderers consume:
// metadata slots first, then child entries filling only keys that are still
// unset. A same-named child never clobbers an assigned scalar, and an
// assigned scalar never leaks into the child's own config, which remains
// intact under Children.
func (c *Config) Flatten() map[string]any {
	if c == nil {
		return nil
	}
	out := make(map[string]any)
	if c.Label != "" {
		out[SlotLabel] = c.Label
	}
	if c.Description != "" {
		out[SlotDescription] = c.Description
	}
	if len(c.InputProps) > 0 {
		props := make(map[string]any, len(c.InputProps))
		for key, value := range c.InputProps {
			props[key] = value
		}
		out[SlotInputProps] = props
	}
	if c.FieldType != nil {
		out[SlotFieldType] = *c.FieldType
	}
	if c.Order != nil {
		out[SlotOrder] = *c.Order
	}
	for key, child := range c.Children {
		if _, taken := out[key]; taken {
			continue
		}
		out[key] = child.Flatten()
	}
	return out
}

// Flattened builds the whole document config in flat-map form.
func Flattened(configs map[string]*Config) map[string]any {
	out := make(map[string]any, len(configs))
	for key, cfg := range configs {
		out[key] = cfg.Flatten()
	}
	return out
}
