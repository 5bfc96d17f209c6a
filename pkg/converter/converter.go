// Package converter translates between the native validation schema and the
// JSON Schema document format while preserving form-only metadata. The native
// side stores that metadata out-of-band on the schema root; the document side
// stores it as extension keys. Neither survives a generic import, so both
// directions re-thread it explicitly.
package converter

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/vschema"
)

// Metadata supplies explicit step information for a conversion. When present
// it overrides anything the base projection produced.
type Metadata struct {
	Steps        []formschema.Step
	StepGroupMap map[string]int
}

// ToFormSchema projects a native validation schema into a JSON Schema
// document. Types the target format cannot express degrade to unconstrained
// properties, except dates, which become string/date-time with their bounds
// carried as formatMinimum/formatMaximum ISO-8601 strings.
func ToFormSchema(schema *vschema.Schema, meta *Metadata) (formschema.Document, error) {
	if schema == nil {
		return formschema.Document{}, errors.New("converter: schema is nil")
	}
	root := schema.Unwrap()
	if root.Kind() != vschema.KindObject {
		return formschema.Document{}, errors.New("converter: root schema must be an object")
	}

	doc := formschema.NewDocument()
	for _, key := range root.FieldOrder() {
		field, _ := root.FieldSchema(key)
		doc.SetProperty(key, projectNode(field))
		if !field.IsOptional() {
			doc.Required = append(doc.Required, key)
		}
	}

	if attached, ok := vschema.MetaOf(schema); ok {
		doc.Steps = append([]formschema.Step(nil), attached.Steps...)
		doc.StepGroupMap = copyStepMap(attached.StepGroupMap)
	}
	if meta != nil {
		if len(meta.Steps) > 0 {
			doc.Steps = append([]formschema.Step(nil), meta.Steps...)
		}
		if len(meta.StepGroupMap) > 0 {
			doc.StepGroupMap = copyStepMap(meta.StepGroupMap)
		}
	}
	if err := doc.CheckStepReferences(); err != nil {
		return formschema.Document{}, err
	}
	return doc, nil
}

func projectNode(node *vschema.Schema) formschema.Property {
	var prop formschema.Property
	base := node.Unwrap()

	if value, ok := node.DefaultValue(); ok {
		prop.Default = value
	}

	switch base.Kind() {
	case vschema.KindString:
		prop.Type = "string"
		if min, ok := base.MinLength(); ok {
			prop.MinLength = &min
		}
		if max, ok := base.MaxLength(); ok {
			prop.MaxLength = &max
		}
		prop.Pattern = base.PatternSource()
	case vschema.KindEnum:
		prop.Type = "string"
		for _, value := range base.EnumValues() {
			prop.Enum = append(prop.Enum, value)
		}
	case vschema.KindNumber:
		prop.Type = "number"
		projectNumericBounds(base, &prop)
	case vschema.KindInteger:
		prop.Type = "integer"
		projectNumericBounds(base, &prop)
	case vschema.KindBool:
		prop.Type = "boolean"
	case vschema.KindDate:
		prop.Type = "string"
		prop.Format = "date-time"
		min, max := base.DateBounds()
		if min != nil {
			prop.FormatMinimum = min.Format(time.RFC3339)
		}
		if max != nil {
			prop.FormatMaximum = max.Format(time.RFC3339)
		}
	case vschema.KindObject:
		prop.Type = "object"
		prop.Properties = make(map[string]formschema.Property)
		for _, key := range base.FieldOrder() {
			child, _ := base.FieldSchema(key)
			prop.Properties[key] = projectNode(child)
			if !child.IsOptional() {
				prop.Required = append(prop.Required, key)
			}
		}
	case vschema.KindArray:
		prop.Type = "array"
		if item := base.Item(); item != nil {
			projected := projectNode(item)
			prop.Items = &projected
		}
	default:
		// KindAny and anything the format cannot express project as an
		// unconstrained property.
	}
	return prop
}

func projectNumericBounds(base *vschema.Schema, prop *formschema.Property) {
	if min, ok := base.Minimum(); ok {
		prop.Minimum = &min
	}
	if max, ok := base.Maximum(); ok {
		prop.Maximum = &max
	}
}

// FromFormSchema builds a native validation schema from a JSON Schema
// document. Date-constrained properties (string/date-time with
// formatMinimum/formatMaximum) get a cross-field validation pass instead of a
// type-level constraint, because the generic import has already coerced the
// value to a string. Root-level steps metadata is re-attached afterwards; the
// import itself drops unrecognized root keys.
func FromFormSchema(doc formschema.Document) (*vschema.Schema, error) {
	if doc.Type != "" && doc.Type != "object" {
		return nil, fmt.Errorf("converter: document type must be object, got %q", doc.Type)
	}
	if err := doc.CheckStepReferences(); err != nil {
		return nil, err
	}

	fields := make(vschema.Fields, 0, len(doc.Properties))
	for _, key := range doc.PropertyKeys() {
		node, err := importProperty(doc.Properties[key])
		if err != nil {
			return nil, fmt.Errorf("converter: property %q: %w", key, err)
		}
		if !doc.IsRequired(key) {
			node = node.Optional()
		}
		fields = append(fields, vschema.Field{Key: key, Schema: node})
	}
	schema := vschema.Object(fields)

	for _, refine := range dateRefinements(doc) {
		schema = schema.Refine(refine)
	}

	if len(doc.Steps) > 0 {
		schema = schema.WithMeta(vschema.Meta{
			Steps:        append([]formschema.Step(nil), doc.Steps...),
			StepGroupMap: doc.StepAssignments(),
		})
	}
	return schema, nil
}

func importProperty(prop formschema.Property) (*vschema.Schema, error) {
	var node *vschema.Schema
	switch prop.Type {
	case "string":
		if prop.Format == "date-time" {
			// Imported date fields accept either a native time or an
			// ISO-8601 string; range constraints are enforced by the
			// cross-field passes attached at the root, not here.
			node = vschema.Date()
			break
		}
		if len(prop.Enum) > 0 {
			values := make([]string, 0, len(prop.Enum))
			for _, entry := range prop.Enum {
				if str, ok := entry.(string); ok {
					values = append(values, str)
				}
			}
			node = vschema.Enum(values...)
		} else {
			node = vschema.String()
			if prop.MinLength != nil {
				node = node.Min(float64(*prop.MinLength))
			}
			if prop.MaxLength != nil {
				node = node.Max(float64(*prop.MaxLength))
			}
			if prop.Pattern != "" {
				node = node.Pattern(prop.Pattern)
			}
		}
	case "number", "integer":
		if prop.Type == "integer" {
			node = vschema.Integer()
		} else {
			node = vschema.Number()
		}
		if prop.Minimum != nil {
			node = node.Min(*prop.Minimum)
		}
		if prop.Maximum != nil {
			node = node.Max(*prop.Maximum)
		}
	case "boolean":
		node = vschema.Bool()
	case "object":
		fields := make(vschema.Fields, 0, len(prop.Properties))
		required := make(map[string]struct{}, len(prop.Required))
		for _, key := range prop.Required {
			required[key] = struct{}{}
		}
		for _, key := range sortedPropertyKeys(prop.Properties) {
			child, err := importProperty(prop.Properties[key])
			if err != nil {
				return nil, err
			}
			if _, ok := required[key]; !ok {
				child = child.Optional()
			}
			fields = append(fields, vschema.Field{Key: key, Schema: child})
		}
		node = vschema.Object(fields)
	case "array":
		var item *vschema.Schema
		if prop.Items != nil {
			imported, err := importProperty(*prop.Items)
			if err != nil {
				return nil, err
			}
			item = imported
		} else {
			item = vschema.Any()
		}
		node = vschema.Array(item)
	case "":
		node = vschema.Any()
	default:
		return nil, fmt.Errorf("unsupported type %q", prop.Type)
	}

	if prop.Default != nil {
		node = node.Default(prop.Default)
	}
	return node, nil
}
