package builder

import (
	"fmt"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/model"
)

// FieldsToSchema converts a builder field tree into a JSON Schema document.
// When two or more steps are supplied, each top-level field's step assignment
// is stamped into its property and the steps array is attached at the root.
// Zero or one step omits every step-related key so single-step forms produce
// clean, step-agnostic documents.
func FieldsToSchema(fields []model.Field, reg components.Registry, steps []formschema.Step) (formschema.Document, []components.Diagnostic) {
	doc := formschema.NewDocument()
	stepped := len(steps) > 1

	var diags []components.Diagnostic
	for _, field := range fields {
		prop, fieldDiags, ok := fieldToProperty(field, reg, field.ID)
		diags = append(diags, fieldDiags...)
		if !ok {
			continue
		}
		if stepped && field.StepGroup != nil {
			idx := *field.StepGroup
			prop.StepGroup = &idx
		}
		doc.SetProperty(field.ID, prop)
		if field.Props.Required {
			doc.Required = append(doc.Required, field.ID)
		}
	}
	if stepped {
		doc.Steps = append([]formschema.Step(nil), steps...)
	}
	return doc, diags
}

func fieldToProperty(field model.Field, reg components.Registry, path string) (formschema.Property, []components.Diagnostic, bool) {
	def, ok := reg.Lookup(field.Type)
	if !ok {
		return formschema.Property{}, []components.Diagnostic{{
			Path:    path,
			Code:    "unknown_component",
			Message: fmt.Sprintf("no definition registered for component type %q", field.Type),
		}}, false
	}

	prop := def.ToJSONSchema(field.Props, field.Props.Required)

	var diags []components.Diagnostic
	switch {
	case field.Type == components.TypeObject && len(field.Children) > 0:
		props, required, childDiags := childrenToProperties(field.Children, reg, path)
		diags = append(diags, childDiags...)
		prop.Properties = props
		prop.Required = required
	case field.Type == components.TypeArray && len(field.ItemTemplate) > 0:
		props, required, childDiags := childrenToProperties(field.ItemTemplate, reg, path)
		diags = append(diags, childDiags...)
		prop.Items = &formschema.Property{
			Type:       "object",
			Properties: props,
			Required:   required,
		}
	}
	return prop, diags, true
}

func childrenToProperties(children []model.Field, reg components.Registry, parentPath string) (map[string]formschema.Property, []string, []components.Diagnostic) {
	props := make(map[string]formschema.Property, len(children))
	var required []string
	var diags []components.Diagnostic
	for _, child := range children {
		prop, childDiags, ok := fieldToProperty(child, reg, parentPath+"."+child.ID)
		diags = append(diags, childDiags...)
		if !ok {
			continue
		}
		// Nested fields are never independently step-assigned.
		prop.StepGroup = nil
		props[child.ID] = prop
		if child.Props.Required {
			required = append(required, child.ID)
		}
	}
	return props, required, diags
}

// SchemaToFields is the inverse of FieldsToSchema. Properties dispatch
// through the registry in order; a property no definition recognizes degrades
// to a generic text field with a diagnostic instead of failing the parse.
// The returned steps slice is empty for single-step documents.
func SchemaToFields(doc formschema.Document, reg components.Registry) ([]model.Field, []formschema.Step, []components.Diagnostic) {
	var fields []model.Field
	var diags []components.Diagnostic

	for _, key := range doc.PropertyKeys() {
		prop := doc.Properties[key]
		field, fieldDiags := propertyToField(prop, key, doc.IsRequired(key), reg, key)
		diags = append(diags, fieldDiags...)
		if prop.StepGroup != nil {
			idx := *prop.StepGroup
			field.StepGroup = &idx
		}
		fields = append(fields, field)
	}

	steps := append([]formschema.Step(nil), doc.Steps...)
	return fields, steps, diags
}

func propertyToField(prop formschema.Property, key string, required bool, reg components.Registry, path string) (model.Field, []components.Diagnostic) {
	field, ok := reg.Match(prop, key, required)
	var diags []components.Diagnostic
	if !ok {
		field = components.Fallback(prop, key, required)
		diags = append(diags, components.Diagnostic{
			Path:    path,
			Code:    "unmatched_property",
			Message: fmt.Sprintf("property %q matched no component; rendering as text", key),
		})
		return field, diags
	}

	switch field.Type {
	case components.TypeObject:
		children, childDiags := childFields(prop.Properties, prop.Required, reg, path)
		diags = append(diags, childDiags...)
		field.Children = children
	case components.TypeArray:
		if prop.Items != nil {
			children, childDiags := childFields(prop.Items.Properties, prop.Items.Required, reg, path)
			diags = append(diags, childDiags...)
			field.ItemTemplate = children
		}
	}
	return field, diags
}

func childFields(props map[string]formschema.Property, requiredKeys []string, reg components.Registry, parentPath string) ([]model.Field, []components.Diagnostic) {
	if len(props) == 0 {
		return nil, nil
	}
	required := make(map[string]struct{}, len(requiredKeys))
	for _, key := range requiredKeys {
		required[key] = struct{}{}
	}

	keys := sortedChildKeys(props)
	fields := make([]model.Field, 0, len(props))
	var diags []components.Diagnostic
	for _, key := range keys {
		_, isRequired := required[key]
		child, childDiags := propertyToField(props[key], key, isRequired, reg, parentPath+"."+key)
		diags = append(diags, childDiags...)
		fields = append(fields, child)
	}
	return fields, diags
}
