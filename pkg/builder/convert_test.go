package builder

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/model"
)

func intPtr(v int) *int { return &v }

func TestFieldsToSchemaSteppedDocument(t *testing.T) {
	reg := components.Builtin()
	fields := []model.Field{
		{ID: "name", Type: components.TypeText, Props: model.Props{Label: "Name", Required: true}, StepGroup: intPtr(0)},
		{ID: "email", Type: components.TypeEmail, Props: model.Props{Label: "Email"}, StepGroup: intPtr(0)},
		{ID: "age", Type: components.TypeNumber, Props: model.Props{Label: "Age"}, StepGroup: intPtr(1)},
	}
	steps := []formschema.Step{{Title: "Identity"}, {Title: "Details"}}

	doc, diags := FieldsToSchema(fields, reg, steps)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if diff := cmp.Diff([]string{"name", "email", "age"}, doc.PropertyKeys()); diff != "" {
		t.Fatalf("key order (-want +got):\n%s", diff)
	}
	if len(doc.Steps) != 2 {
		t.Fatalf("steps = %v", doc.Steps)
	}
	if got := doc.Properties["age"].StepGroup; got == nil || *got != 1 {
		t.Fatalf("age step group = %v", got)
	}
	if diff := cmp.Diff([]string{"name"}, doc.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
}

// A canvas with zero or one step must produce a document with no step keys at
// all, even when fields still carry stale assignments.
func TestFieldsToSchemaSingleStepOmitsStepKeys(t *testing.T) {
	reg := components.Builtin()
	fields := []model.Field{
		{ID: "name", Type: components.TypeText, StepGroup: intPtr(0)},
	}

	doc, diags := FieldsToSchema(fields, reg, []formschema.Step{{Title: "Only"}})
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if len(doc.Steps) != 0 {
		t.Fatalf("steps attached: %v", doc.Steps)
	}
	if doc.Properties["name"].StepGroup != nil {
		t.Fatal("step group stamped on single-step document")
	}
}

func TestFieldsToSchemaUnknownComponent(t *testing.T) {
	reg := components.Builtin()
	fields := []model.Field{
		{ID: "name", Type: components.TypeText},
		{ID: "stars", Type: "rating"},
	}

	doc, diags := FieldsToSchema(fields, reg, nil)
	if len(diags) != 1 || diags[0].Code != "unknown_component" || diags[0].Path != "stars" {
		t.Fatalf("diagnostics = %v", diags)
	}
	if _, ok := doc.Properties["stars"]; ok {
		t.Fatal("unknown component emitted a property")
	}
	if _, ok := doc.Properties["name"]; !ok {
		t.Fatal("valid sibling dropped")
	}
}

func TestSchemaToFieldsFallsBackToText(t *testing.T) {
	doc := formschema.NewDocument()
	// An object with no properties matches no definition.
	doc.SetProperty("mystery", formschema.Property{Type: "object"})

	fields, _, diags := SchemaToFields(doc, components.Builtin())
	if len(diags) != 1 || diags[0].Code != "unmatched_property" {
		t.Fatalf("diagnostics = %v", diags)
	}
	if len(fields) != 1 || fields[0].Type != components.TypeText {
		t.Fatalf("fallback field = %v", fields)
	}
}

func TestFieldsSchemaFieldsRoundTrip(t *testing.T) {
	reg := components.Builtin()
	fields := []model.Field{
		{ID: "name", Type: components.TypeText, Props: model.Props{Label: "Name", Required: true}, StepGroup: intPtr(0)},
		{ID: "plan", Type: components.TypeSelect, Props: model.Props{Label: "Plan", Options: "free\npro"}, StepGroup: intPtr(0)},
		{ID: "address", Type: components.TypeObject, Props: model.Props{Label: "Address"}, StepGroup: intPtr(1), Children: []model.Field{
			{ID: "city", Type: components.TypeText, Props: model.Props{Label: "City", Required: true}},
			{ID: "street", Type: components.TypeText, Props: model.Props{Label: "Street"}},
		}},
	}
	steps := []formschema.Step{{Title: "Account"}, {Title: "Shipping"}}

	doc, diags := FieldsToSchema(fields, reg, steps)
	if len(diags) != 0 {
		t.Fatalf("to schema diagnostics: %v", diags)
	}

	back, backSteps, diags := SchemaToFields(doc, reg)
	if len(diags) != 0 {
		t.Fatalf("to fields diagnostics: %v", diags)
	}
	if diff := cmp.Diff(steps, backSteps); diff != "" {
		t.Fatalf("steps (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fields, back); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
}

func TestNestedFieldsNeverCarryStepAssignments(t *testing.T) {
	reg := components.Builtin()
	fields := []model.Field{
		{ID: "address", Type: components.TypeObject, Children: []model.Field{
			{ID: "city", Type: components.TypeText, StepGroup: intPtr(1)},
		}},
	}

	doc, _ := FieldsToSchema(fields, reg, []formschema.Step{{Title: "A"}, {Title: "B"}})
	child := doc.Properties["address"].Properties["city"]
	if child.StepGroup != nil {
		t.Fatalf("nested step group survived: %v", *child.StepGroup)
	}
}
