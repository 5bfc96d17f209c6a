// Package openapi imports form documents from OpenAPI 3 specifications. A
// request body or component schema becomes a form document; UI metadata rides
// along in an "x-form" extension object since OpenAPI reserves non-standard
// keys for the x- namespace.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formschema/pkg/formschema"
)

// ExtensionKey is the namespace object carrying form metadata on an OpenAPI
// schema. Its entries mirror the document extension keys: label, placeholder,
// fieldType, inputProps, order, stepGroup, formatMinimum, formatMaximum and,
// on the root schema, steps and stepGroupMap.
const ExtensionKey = "x-form"

// ImportOptions selects which schema of a specification becomes the form.
type ImportOptions struct {
	// Component names a schema under #/components/schemas.
	Component string
	// OperationID selects an operation's JSON request body instead of a
	// component schema.
	OperationID string
	// ResolveExternalRefs lets the parser follow refs outside the document.
	ResolveExternalRefs bool
	// SkipValidation bypasses the structural validation pass, for partial
	// documents.
	SkipValidation bool
}

// Import parses an OpenAPI specification and converts the selected schema
// into a form document.
func Import(ctx context.Context, doc Document, opts ImportOptions) (formschema.Document, error) {
	raw := doc.Raw()
	if len(raw) == 0 {
		return formschema.Document{}, errors.New("openapi: document payload is empty")
	}
	if opts.Component == "" && opts.OperationID == "" {
		return formschema.Document{}, errors.New("openapi: select a component schema or an operation")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return formschema.Document{}, fmt.Errorf("openapi: parse document: %w", err)
	}
	if !opts.SkipValidation {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return formschema.Document{}, fmt.Errorf("openapi: validate document: %w", err)
		}
	}

	ref, err := selectSchema(spec, opts)
	if err != nil {
		return formschema.Document{}, err
	}
	return convertRoot(ref)
}

func selectSchema(spec *openapi3.T, opts ImportOptions) (*openapi3.SchemaRef, error) {
	if opts.Component != "" {
		if spec.Components == nil || spec.Components.Schemas == nil {
			return nil, errors.New("openapi: document has no component schemas")
		}
		ref, ok := spec.Components.Schemas[opts.Component]
		if !ok {
			return nil, fmt.Errorf("openapi: component schema %q not found", opts.Component)
		}
		return ref, nil
	}

	operation := findOperation(spec, opts.OperationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", opts.OperationID)
	}
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body", opts.OperationID)
	}
	for contentType, media := range operation.RequestBody.Value.Content {
		if media == nil || media.Schema == nil {
			continue
		}
		if contentType == "application/json" || strings.HasSuffix(contentType, "+json") {
			return media.Schema, nil
		}
	}
	return nil, fmt.Errorf("openapi: operation %q has no JSON request schema", opts.OperationID)
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func convertRoot(ref *openapi3.SchemaRef) (formschema.Document, error) {
	if ref == nil || ref.Value == nil {
		return formschema.Document{}, errors.New("openapi: selected schema is empty")
	}
	src := ref.Value
	if kind := firstType(src.Type); kind != "" && kind != "object" {
		return formschema.Document{}, fmt.Errorf("openapi: form schema must be an object, got %q", kind)
	}

	doc := formschema.NewDocument()
	doc.Title = src.Title
	doc.Description = src.Description
	for _, key := range sortedSchemaKeys(src.Properties) {
		doc.SetProperty(key, convertProperty(src.Properties[key]))
	}
	if len(src.Required) > 0 {
		doc.Required = append([]string(nil), src.Required...)
	}

	ext := formExtensions(src.Extensions)
	doc.Steps = stepsFromExtension(ext["steps"])
	doc.StepGroupMap = stepMapFromExtension(ext["stepGroupMap"])

	if err := doc.CheckStepReferences(); err != nil {
		return formschema.Document{}, err
	}
	return doc, nil
}

func convertProperty(ref *openapi3.SchemaRef) formschema.Property {
	var prop formschema.Property
	if ref == nil || ref.Value == nil {
		return prop
	}
	src := ref.Value

	prop.Type = firstType(src.Type)
	prop.Format = src.Format
	prop.Title = src.Title
	prop.Description = src.Description
	prop.Pattern = src.Pattern
	prop.Default = src.Default
	if len(src.Enum) > 0 {
		prop.Enum = append([]any(nil), src.Enum...)
	}
	if src.Min != nil {
		value := *src.Min
		prop.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		prop.Maximum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		prop.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		prop.MaxLength = &value
	}
	if len(src.Required) > 0 {
		prop.Required = append([]string(nil), src.Required...)
	}
	if len(src.Properties) > 0 {
		prop.Properties = make(map[string]formschema.Property, len(src.Properties))
		for key, child := range src.Properties {
			prop.Properties[key] = convertProperty(child)
		}
	}
	if src.Items != nil {
		items := convertProperty(src.Items)
		prop.Items = &items
	}

	applyFormExtensions(&prop, formExtensions(src.Extensions))
	return prop
}

// formExtensions pulls the x-form namespace object off a schema.
func formExtensions(raw map[string]any) map[string]any {
	value, ok := raw[ExtensionKey]
	if !ok {
		return nil
	}
	mapped, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return mapped
}

func applyFormExtensions(prop *formschema.Property, ext map[string]any) {
	if len(ext) == 0 {
		return
	}
	if label, ok := ext["label"].(string); ok {
		prop.Label = label
	}
	if placeholder, ok := ext["placeholder"].(string); ok {
		prop.Placeholder = placeholder
	}
	if fieldType, ok := ext["fieldType"].(string); ok {
		prop.FieldType = fieldType
	}
	if inputProps, ok := ext["inputProps"].(map[string]any); ok && len(inputProps) > 0 {
		prop.InputProps = make(map[string]any, len(inputProps))
		for key, value := range inputProps {
			prop.InputProps[key] = value
		}
	}
	if order, ok := intFromAny(ext["order"]); ok {
		prop.Order = &order
	}
	if group, ok := intFromAny(ext["stepGroup"]); ok {
		prop.StepGroup = &group
	}
	if min, ok := ext["formatMinimum"].(string); ok {
		prop.FormatMinimum = min
	}
	if max, ok := ext["formatMaximum"].(string); ok {
		prop.FormatMaximum = max
	}
}

func stepsFromExtension(value any) []formschema.Step {
	entries, ok := value.([]any)
	if !ok {
		return nil
	}
	steps := make([]formschema.Step, 0, len(entries))
	for _, entry := range entries {
		mapped, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		var step formschema.Step
		step.ID, _ = mapped["id"].(string)
		step.Title, _ = mapped["title"].(string)
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil
	}
	return steps
}

func stepMapFromExtension(value any) map[string]int {
	entries, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]int, len(entries))
	for key, raw := range entries {
		if idx, ok := intFromAny(raw); ok {
			out[key] = idx
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func intFromAny(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func sortedSchemaKeys(schemas openapi3.Schemas) []string {
	keys := make([]string, 0, len(schemas))
	for key := range schemas {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
