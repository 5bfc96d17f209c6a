package fieldconfig

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/formschema"
)

func buildDoc(t *testing.T, props map[string]formschema.Property) formschema.Document {
	t.Helper()
	doc := formschema.NewDocument()
	for key, prop := range props {
		doc.SetProperty(key, prop)
	}
	return doc
}

// A child property that happens to be named like a metadata slot must not
// steal that slot from the parent. All five reserved names are exercised, two
// levels deep.
func TestFlattenReservedKeyCollision(t *testing.T) {
	order := 3
	doc := buildDoc(t, map[string]formschema.Property{
		"settings": {
			Type:        "object",
			Label:       "Settings",
			Description: "Account settings",
			InputProps:  map[string]any{"autofocus": true},
			FieldType:   "object",
			Order:       &order,
			Properties: map[string]formschema.Property{
				"label":       {Type: "string", Label: "Child Label Field"},
				"description": {Type: "string"},
				"inputProps":  {Type: "string"},
				"fieldType":   {Type: "string"},
				"order":       {Type: "number"},
				"plain": {
					Type:        "object",
					Label:       "Nested",
					Description: "Second level",
					Properties: map[string]formschema.Property{
						"description": {Type: "string", Label: "Deep Impostor"},
					},
				},
			},
		},
	})

	configs, diags := Build(doc, Options{})
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}

	flat := configs["settings"].Flatten()
	if flat[SlotLabel] != "Settings" {
		t.Fatalf("label slot = %v", flat[SlotLabel])
	}
	if flat[SlotDescription] != "Account settings" {
		t.Fatalf("description slot = %v", flat[SlotDescription])
	}
	if props, ok := flat[SlotInputProps].(map[string]any); !ok || props["autofocus"] != true {
		t.Fatalf("inputProps slot = %v", flat[SlotInputProps])
	}
	if ft, ok := flat[SlotFieldType].(FieldType); !ok || ft.Name != "object" {
		t.Fatalf("fieldType slot = %v", flat[SlotFieldType])
	}
	if flat[SlotOrder] != 3 {
		t.Fatalf("order slot = %v", flat[SlotOrder])
	}

	// The colliding children stay reachable through Children with their own
	// config intact.
	child := configs["settings"].Children["label"]
	if child == nil || child.Label != "Child Label Field" {
		t.Fatalf("shadowed child lost: %#v", child)
	}

	// Second nesting level: the nested object keeps its own description slot
	// against its own impostor child.
	nested := configs["settings"].Children["plain"].Flatten()
	if nested[SlotDescription] != "Second level" {
		t.Fatalf("nested description slot = %v", nested[SlotDescription])
	}
	deep := configs["settings"].Children["plain"].Children["description"]
	if deep == nil || deep.Label != "Deep Impostor" {
		t.Fatalf("deep impostor config lost: %#v", deep)
	}
}

func TestDefaultValueDisablesRequired(t *testing.T) {
	doc := buildDoc(t, map[string]formschema.Property{
		"country": {Type: "string", Default: "DE"},
	})

	configs, _ := Build(doc, Options{})
	props := configs["country"].InputProps
	if props["defaultValue"] != "DE" {
		t.Fatalf("defaultValue = %v", props["defaultValue"])
	}
	if props["required"] != false {
		t.Fatalf("required = %v", props["required"])
	}
}

func TestPlaceholderFoldsIntoInputProps(t *testing.T) {
	doc := buildDoc(t, map[string]formschema.Property{
		"email": {Type: "string", Placeholder: "you@example.com", InputProps: map[string]any{"autocomplete": "email"}},
	})

	configs, _ := Build(doc, Options{})
	want := map[string]any{"autocomplete": "email", "placeholder": "you@example.com"}
	if diff := cmp.Diff(want, configs["email"].InputProps); diff != "" {
		t.Fatalf("inputProps (-want +got):\n%s", diff)
	}
}

func TestFieldTypeResolutionPrecedence(t *testing.T) {
	doc := buildDoc(t, map[string]formschema.Property{
		"explicit":   {Type: "string", FieldType: "textarea"},
		"overridden": {Type: "string"},
		"date":       {Type: "string", Format: "date-time"},
		"plain":      {Type: "string"},
	})

	configs, diags := Build(doc, Options{
		TypeOverrides: map[string]string{
			"overridden": "password",
			// Explicit fieldType wins over the stored override.
			"explicit": "email",
		},
	})
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}

	cases := map[string]string{
		"explicit":   "textarea",
		"overridden": "password",
		"date":       components.TypeDate,
	}
	for key, want := range cases {
		ft := configs[key].FieldType
		if ft == nil || ft.Name != want {
			t.Fatalf("%s field type = %#v, want %s", key, ft, want)
		}
	}
	if configs["plain"].FieldType != nil {
		t.Fatalf("plain string resolved a type: %#v", configs["plain"].FieldType)
	}
}

func TestCustomComponentResolution(t *testing.T) {
	marker := struct{ name string }{"rating-widget"}
	doc := buildDoc(t, map[string]formschema.Property{
		"stars": {Type: "number", FieldType: "rating"},
	})

	configs, diags := Build(doc, Options{
		CustomComponents: map[string]any{"rating": marker},
	})
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}
	ft := configs["stars"].FieldType
	if ft == nil || ft.Name != "rating" || ft.Component != marker {
		t.Fatalf("field type = %#v", ft)
	}
}

func TestUnknownFieldTypeDegradesWithDiagnostic(t *testing.T) {
	doc := buildDoc(t, map[string]formschema.Property{
		"stars": {Type: "number", FieldType: "rating"},
	})

	configs, diags := Build(doc, Options{})
	if len(diags) != 1 || diags[0].Code != "unknown_field_type" || diags[0].Path != "stars" {
		t.Fatalf("diagnostics = %v", diags)
	}
	if configs["stars"].FieldType != nil {
		t.Fatalf("unresolved type kept: %#v", configs["stars"].FieldType)
	}
}

func TestLabelsAreSanitized(t *testing.T) {
	doc := buildDoc(t, map[string]formschema.Property{
		"name": {Type: "string", Label: `Name<script>alert(1)</script>`, Description: "Use <em>full</em> name"},
	})

	configs, _ := Build(doc, Options{})
	cfg := configs["name"]
	if cfg.Label != "Name" {
		t.Fatalf("script survived sanitization: %q", cfg.Label)
	}
	if cfg.Description != "Use <em>full</em> name" {
		t.Fatalf("benign markup stripped: %q", cfg.Description)
	}
}

func TestFlattenedCoversAllKeys(t *testing.T) {
	doc := buildDoc(t, map[string]formschema.Property{
		"a": {Type: "string", Label: "A"},
		"b": {Type: "string", Label: "B"},
	})

	configs, _ := Build(doc, Options{})
	flat := Flattened(configs)
	if len(flat) != 2 {
		t.Fatalf("flat = %v", flat)
	}
	entry, ok := flat["a"].(map[string]any)
	if !ok || entry[SlotLabel] != "A" {
		t.Fatalf("entry = %v", flat["a"])
	}
}
