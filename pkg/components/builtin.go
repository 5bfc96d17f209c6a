package components

import (
	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/model"
)

// Built-in component tags.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypePassword = "password"
	TypeURL      = "url"
	TypePhone    = "phone"
	TypeTextarea = "textarea"
	TypeColor    = "color"
	TypeDate     = "date"
	TypeNumber   = "number"
	TypeCheckbox = "checkbox"
	TypeSwitch   = "switch"
	TypeSelect   = "select"
	TypeRadio    = "radio"
	TypeObject   = "object"
	TypeArray    = "array"
)

// Builtin returns the default ordered registry. Specific string components
// come before the generic text catch-all so dispatch never misclassifies a
// property that carries a narrowing marker.
func Builtin() Registry {
	return MustNewRegistry(
		emailDefinition(),
		passwordDefinition(),
		urlDefinition(),
		phoneDefinition(),
		textareaDefinition(),
		colorDefinition(),
		dateDefinition(),
		radioDefinition(),
		selectDefinition(),
		numberDefinition(),
		switchDefinition(),
		checkboxDefinition(),
		objectDefinition(),
		arrayDefinition(),
		textDefinition(),
	)
}

func baseProperty(props model.Props) formschema.Property {
	return formschema.Property{
		Label:       props.Label,
		Description: props.Description,
		Placeholder: props.Placeholder,
		Default:     props.DefaultValue,
	}
}

func baseProps(prop formschema.Property, required bool) model.Props {
	return model.Props{
		Label:        labelOrTitle(prop),
		Description:  prop.Description,
		Placeholder:  prop.Placeholder,
		Required:     required,
		DefaultValue: prop.Default,
	}
}

func inputPropsType(prop formschema.Property) string {
	if prop.InputProps == nil {
		return ""
	}
	value, _ := prop.InputProps["type"].(string)
	return value
}

func intPtrToFloat(value *int) *float64 {
	if value == nil {
		return nil
	}
	f := float64(*value)
	return &f
}

func floatPtrToInt(value *float64) *int {
	if value == nil {
		return nil
	}
	i := int(*value)
	return &i
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	f := *value
	return &f
}

func textDefinition() Definition {
	return Definition{
		Type:             TypeText,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "Text"},
		PropertiesSchema: stringPanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.MinLength = floatPtrToInt(props.Min)
			out.MaxLength = floatPtrToInt(props.Max)
			out.Pattern = props.Pattern
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || len(prop.Enum) > 0 || prop.FieldType != "" ||
				prop.Format != "" || inputPropsType(prop) != "" {
				return nil
			}
			props := baseProps(prop, required)
			props.Min = intPtrToFloat(prop.MinLength)
			props.Max = intPtrToFloat(prop.MaxLength)
			props.Pattern = prop.Pattern
			return &model.Field{ID: key, Type: TypeText, Props: props}
		},
	}
}

func emailDefinition() Definition {
	return Definition{
		Type:             TypeEmail,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "Email"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.Format = "email"
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" {
				return nil
			}
			if prop.Format != "email" && inputPropsType(prop) != "email" {
				return nil
			}
			return &model.Field{ID: key, Type: TypeEmail, Props: baseProps(prop, required)}
		},
	}
}

func passwordDefinition() Definition {
	return Definition{
		Type:             TypePassword,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "Password"},
		PropertiesSchema: stringPanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.InputProps = map[string]any{"type": "password"}
			out.MinLength = floatPtrToInt(props.Min)
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || inputPropsType(prop) != "password" {
				return nil
			}
			props := baseProps(prop, required)
			props.Min = intPtrToFloat(prop.MinLength)
			return &model.Field{ID: key, Type: TypePassword, Props: props}
		},
	}
}

func urlDefinition() Definition {
	return Definition{
		Type:             TypeURL,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "URL"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.Format = "uri"
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || prop.Format != "uri" {
				return nil
			}
			return &model.Field{ID: key, Type: TypeURL, Props: baseProps(prop, required)}
		},
	}
}

func phoneDefinition() Definition {
	return Definition{
		Type:             TypePhone,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "Phone"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.InputProps = map[string]any{"type": "tel"}
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || inputPropsType(prop) != "tel" {
				return nil
			}
			return &model.Field{ID: key, Type: TypePhone, Props: baseProps(prop, required)}
		},
	}
}

func textareaDefinition() Definition {
	return Definition{
		Type:             TypeTextarea,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "Textarea", Rows: 3},
		PropertiesSchema: textareaPanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.FieldType = TypeTextarea
			out.MaxLength = floatPtrToInt(props.Max)
			if props.Rows > 0 {
				out.InputProps = map[string]any{"rows": props.Rows}
			}
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || prop.FieldType != TypeTextarea {
				return nil
			}
			props := baseProps(prop, required)
			props.Max = intPtrToFloat(prop.MaxLength)
			if prop.InputProps != nil {
				switch rows := prop.InputProps["rows"].(type) {
				case int:
					props.Rows = rows
				case float64:
					props.Rows = int(rows)
				}
			}
			return &model.Field{ID: key, Type: TypeTextarea, Props: props}
		},
	}
}

func colorDefinition() Definition {
	return Definition{
		Type:             TypeColor,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "Color"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.FieldType = TypeColor
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || prop.FieldType != TypeColor {
				return nil
			}
			return &model.Field{ID: key, Type: TypeColor, Props: baseProps(prop, required)}
		},
	}
}

func dateDefinition() Definition {
	return Definition{
		Type:             TypeDate,
		BackingType:      BackingDate,
		DefaultProps:     model.Props{Label: "Date"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.Format = "date-time"
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" {
				return nil
			}
			if prop.Format != "date-time" && prop.FieldType != TypeDate {
				return nil
			}
			return &model.Field{ID: key, Type: TypeDate, Props: baseProps(prop, required)}
		},
	}
}

func numberDefinition() Definition {
	return Definition{
		Type:             TypeNumber,
		BackingType:      BackingNumber,
		DefaultProps:     model.Props{Label: "Number"},
		PropertiesSchema: numberPanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "number"
			out.Minimum = copyFloat(props.Min)
			out.Maximum = copyFloat(props.Max)
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "number" && prop.Type != "integer" {
				return nil
			}
			props := baseProps(prop, required)
			props.Min = copyFloat(prop.Minimum)
			props.Max = copyFloat(prop.Maximum)
			return &model.Field{ID: key, Type: TypeNumber, Props: props}
		},
	}
}

func checkboxDefinition() Definition {
	return Definition{
		Type:             TypeCheckbox,
		BackingType:      BackingBoolean,
		DefaultProps:     model.Props{Label: "Checkbox"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "boolean"
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "boolean" || prop.FieldType == TypeSwitch {
				return nil
			}
			return &model.Field{ID: key, Type: TypeCheckbox, Props: baseProps(prop, required)}
		},
	}
}

func switchDefinition() Definition {
	return Definition{
		Type:             TypeSwitch,
		BackingType:      BackingBoolean,
		DefaultProps:     model.Props{Label: "Switch"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "boolean"
			out.FieldType = TypeSwitch
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "boolean" || prop.FieldType != TypeSwitch {
				return nil
			}
			return &model.Field{ID: key, Type: TypeSwitch, Props: baseProps(prop, required)}
		},
	}
}

func selectDefinition() Definition {
	return Definition{
		Type:             TypeSelect,
		BackingType:      BackingEnum,
		DefaultProps:     model.Props{Label: "Select", Options: "Option 1\nOption 2"},
		PropertiesSchema: enumPanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.Enum = enumFromOptions(props.Options)
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || len(prop.Enum) == 0 || prop.FieldType == TypeRadio {
				return nil
			}
			props := baseProps(prop, required)
			props.Options = optionsFromEnum(prop.Enum)
			return &model.Field{ID: key, Type: TypeSelect, Props: props}
		},
	}
}

func radioDefinition() Definition {
	return Definition{
		Type:             TypeRadio,
		BackingType:      BackingEnum,
		DefaultProps:     model.Props{Label: "Radio", Options: "Option 1\nOption 2"},
		PropertiesSchema: enumPanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "string"
			out.Enum = enumFromOptions(props.Options)
			out.FieldType = TypeRadio
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "string" || len(prop.Enum) == 0 || prop.FieldType != TypeRadio {
				return nil
			}
			props := baseProps(prop, required)
			props.Options = optionsFromEnum(prop.Enum)
			return &model.Field{ID: key, Type: TypeRadio, Props: props}
		},
	}
}

func objectDefinition() Definition {
	return Definition{
		Type:             TypeObject,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "Group"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "object"
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "object" || len(prop.Properties) == 0 {
				return nil
			}
			// Children are converted by the caller, which owns recursion.
			return &model.Field{ID: key, Type: TypeObject, Props: baseProps(prop, required)}
		},
	}
}

func arrayDefinition() Definition {
	return Definition{
		Type:             TypeArray,
		BackingType:      BackingString,
		DefaultProps:     model.Props{Label: "List"},
		PropertiesSchema: basePanelSchema(),
		ToJSONSchema: func(props model.Props, _ bool) formschema.Property {
			out := baseProperty(props)
			out.Type = "array"
			return out
		},
		FromJSONSchema: func(prop formschema.Property, key string, required bool) *model.Field {
			if prop.Type != "array" || prop.Items == nil {
				return nil
			}
			return &model.Field{ID: key, Type: TypeArray, Props: baseProps(prop, required)}
		},
	}
}

func enumFromOptions(options string) []any {
	values := model.SplitOptions(options)
	if len(values) == 0 {
		return nil
	}
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}
	return out
}

func optionsFromEnum(enum []any) string {
	values := make([]string, 0, len(enum))
	for _, entry := range enum {
		if str, ok := entry.(string); ok {
			values = append(values, str)
		}
	}
	return model.JoinOptions(values)
}
