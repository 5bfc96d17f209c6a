package html

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/fieldconfig"
	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/model"
)

// fieldWriter builds per-field control markup from matched component fields.
type fieldWriter struct {
	registry components.Registry
	values   map[string]any
	errors   map[string][]string
}

func (w *fieldWriter) renderAll(doc formschema.Document, keys []string, configs map[string]*fieldconfig.Config) (string, error) {
	var b strings.Builder
	for _, key := range keys {
		prop, ok := doc.Properties[key]
		if !ok {
			continue
		}
		if err := w.renderField(&b, key, key, prop, configs[key], doc.IsRequired(key)); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (w *fieldWriter) renderField(b *strings.Builder, key, path string, prop formschema.Property, cfg *fieldconfig.Config, required bool) error {
	field := w.resolveField(prop, key, required, cfg)

	// A custom component cannot render server-side; emit a mount point the
	// client runtime hydrates.
	if cfg != nil && cfg.FieldType != nil && cfg.FieldType.Component != nil {
		fmt.Fprintf(b, `<div class="fs-field fs-field-custom" data-field=%q data-component=%q></div>`,
			path, cfg.FieldType.Name)
		b.WriteByte('\n')
		return nil
	}

	label := field.Props.Label
	if label == "" {
		label = model.HumanizeKey(key)
	}

	fmt.Fprintf(b, `<div class="fs-field fs-field-%s" data-field=%q>`, field.Type, path)
	b.WriteByte('\n')
	if field.Type != components.TypeCheckbox && field.Type != components.TypeSwitch {
		fmt.Fprintf(b, `<label class="fs-label" for=%q>%s`, path, html.EscapeString(label))
		if required {
			b.WriteString(`<span class="fs-required" aria-hidden="true">*</span>`)
		}
		b.WriteString("</label>\n")
	}

	if err := w.renderControl(b, path, prop, field, cfg, required, label); err != nil {
		return err
	}

	if field.Props.Description != "" {
		fmt.Fprintf(b, `<p class="fs-help">%s</p>`, html.EscapeString(field.Props.Description))
		b.WriteByte('\n')
	}
	for _, message := range w.errors[path] {
		fmt.Fprintf(b, `<p class="fs-error" role="alert">%s</p>`, html.EscapeString(message))
		b.WriteByte('\n')
	}
	b.WriteString("</div>\n")
	return nil
}

// resolveField matches the property against the registry, honoring an
// explicit field-type resolution from the config pass when the registry knows
// the type.
func (w *fieldWriter) resolveField(prop formschema.Property, key string, required bool, cfg *fieldconfig.Config) model.Field {
	if cfg != nil && cfg.FieldType != nil && cfg.FieldType.Component == nil {
		if def, ok := w.registry.Lookup(cfg.FieldType.Name); ok {
			if field := def.FromJSONSchema(prop, key, required); field != nil {
				return *field
			}
		}
	}
	if field, ok := w.registry.Match(prop, key, required); ok {
		return field
	}
	return components.Fallback(prop, key, required)
}

func (w *fieldWriter) renderControl(b *strings.Builder, path string, prop formschema.Property, field model.Field, cfg *fieldconfig.Config, required bool, label string) error {
	value := w.values[path]

	switch field.Type {
	case components.TypeTextarea:
		rows := field.Props.Rows
		if rows <= 0 {
			rows = 3
		}
		fmt.Fprintf(b, `<textarea class="fs-control" id=%q name=%q rows="%d"%s%s>%s</textarea>`,
			path, path, rows, requiredAttr(required), placeholderAttr(field.Props.Placeholder), html.EscapeString(stringValue(value, field.Props.DefaultValue)))
		b.WriteByte('\n')

	case components.TypeSelect:
		fmt.Fprintf(b, `<select class="fs-control" id=%q name=%q%s>`, path, path, requiredAttr(required))
		b.WriteByte('\n')
		if !required {
			b.WriteString(`<option value=""></option>` + "\n")
		}
		selected := stringValue(value, field.Props.DefaultValue)
		for _, option := range model.SplitOptions(field.Props.Options) {
			fmt.Fprintf(b, `<option value=%q%s>%s</option>`,
				option, selectedAttr(option == selected), html.EscapeString(option))
			b.WriteByte('\n')
		}
		b.WriteString("</select>\n")

	case components.TypeRadio:
		selected := stringValue(value, field.Props.DefaultValue)
		fmt.Fprintf(b, `<div class="fs-radio-group" role="radiogroup" aria-label=%q>`, label)
		b.WriteByte('\n')
		for idx, option := range model.SplitOptions(field.Props.Options) {
			id := path + "." + strconv.Itoa(idx)
			fmt.Fprintf(b, `<label class="fs-radio"><input type="radio" id=%q name=%q value=%q%s%s> %s</label>`,
				id, path, option, checkedAttr(option == selected), requiredAttr(required), html.EscapeString(option))
			b.WriteByte('\n')
		}
		b.WriteString("</div>\n")

	case components.TypeCheckbox, components.TypeSwitch:
		checked := boolValue(value, field.Props.DefaultValue)
		class := "fs-checkbox"
		if field.Type == components.TypeSwitch {
			class = "fs-switch"
		}
		fmt.Fprintf(b, `<label class=%q><input type="checkbox" id=%q name=%q%s> %s</label>`,
			class, path, path, checkedAttr(checked), html.EscapeString(label))
		b.WriteByte('\n')

	case components.TypeObject:
		fmt.Fprintf(b, `<fieldset class="fs-group" id=%q>`, path)
		b.WriteByte('\n')
		required := make(map[string]struct{}, len(prop.Required))
		for _, key := range prop.Required {
			required[key] = struct{}{}
		}
		for _, childKey := range childKeys(prop.Properties) {
			_, isRequired := required[childKey]
			if err := w.renderField(b, childKey, path+"."+childKey, prop.Properties[childKey], childConfig(cfg, childKey), isRequired); err != nil {
				return err
			}
		}
		b.WriteString("</fieldset>\n")

	case components.TypeArray:
		fmt.Fprintf(b, `<div class="fs-list" id=%q data-list=%q>`, path, path)
		b.WriteByte('\n')
		if prop.Items != nil {
			b.WriteString(`<template data-list-item>` + "\n")
			if err := w.renderField(b, "item", path+".0", *prop.Items, nil, false); err != nil {
				return err
			}
			b.WriteString("</template>\n")
		}
		fmt.Fprintf(b, `<button type="button" class="fs-button fs-list-add" data-action="add-item">Add</button>`)
		b.WriteString("\n</div>\n")

	default:
		w.renderInput(b, path, field, required)
	}
	return nil
}

func (w *fieldWriter) renderInput(b *strings.Builder, path string, field model.Field, required bool) {
	inputType := inputTypeFor(field.Type)
	fmt.Fprintf(b, `<input class="fs-control" type=%q id=%q name=%q`, inputType, path, path)

	if value := stringValue(w.values[path], field.Props.DefaultValue); value != "" {
		fmt.Fprintf(b, ` value=%q`, value)
	}
	b.WriteString(placeholderAttr(field.Props.Placeholder))
	if field.Props.Pattern != "" {
		fmt.Fprintf(b, ` pattern=%q`, field.Props.Pattern)
	}
	if field.Props.Min != nil {
		b.WriteString(numberAttr(minAttrName(field.Type), *field.Props.Min))
	}
	if field.Props.Max != nil {
		b.WriteString(numberAttr(maxAttrName(field.Type), *field.Props.Max))
	}
	b.WriteString(requiredAttr(required))
	b.WriteString(">\n")
}

func inputTypeFor(fieldType string) string {
	switch fieldType {
	case components.TypeEmail:
		return "email"
	case components.TypePassword:
		return "password"
	case components.TypeURL:
		return "url"
	case components.TypePhone:
		return "tel"
	case components.TypeColor:
		return "color"
	case components.TypeDate:
		return "datetime-local"
	case components.TypeNumber:
		return "number"
	default:
		return "text"
	}
}

// Text-like inputs express length bounds as minlength/maxlength; numeric
// inputs use min/max.
func minAttrName(fieldType string) string {
	if fieldType == components.TypeNumber || fieldType == components.TypeDate {
		return "min"
	}
	return "minlength"
}

func maxAttrName(fieldType string) string {
	if fieldType == components.TypeNumber || fieldType == components.TypeDate {
		return "max"
	}
	return "maxlength"
}

func childConfig(cfg *fieldconfig.Config, key string) *fieldconfig.Config {
	if cfg == nil {
		return nil
	}
	return cfg.Children[key]
}

func childKeys(props map[string]formschema.Property) []string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi := props[keys[i]].Order
		oj := props[keys[j]].Order
		switch {
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		case oi != nil && oj == nil:
			return true
		case oi == nil && oj != nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

func requiredAttr(required bool) string {
	if required {
		return " required"
	}
	return ""
}

func placeholderAttr(placeholder string) string {
	if placeholder == "" {
		return ""
	}
	return fmt.Sprintf(" placeholder=%q", placeholder)
}

func selectedAttr(selected bool) string {
	if selected {
		return " selected"
	}
	return ""
}

func checkedAttr(checked bool) string {
	if checked {
		return " checked"
	}
	return ""
}

func numberAttr(name string, value float64) string {
	return fmt.Sprintf(" %s=%q", name, strconv.FormatFloat(value, 'f', -1, 64))
}

func stringValue(value, fallback any) string {
	if value == nil {
		value = fallback
	}
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func boolValue(value, fallback any) bool {
	if value == nil {
		value = fallback
	}
	typed, ok := value.(bool)
	return ok && typed
}
