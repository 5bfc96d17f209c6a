package formschema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePreservesPropertyOrder(t *testing.T) {
	data := []byte(`{
		"type": "object",
		"properties": {
			"zebra": {"type": "string"},
			"alpha": {"type": "number"},
			"middle": {"type": "boolean"}
		}
	}`)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []string{"zebra", "alpha", "middle"}
	if diff := cmp.Diff(want, doc.PropertyKeys()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalEmitsPropertiesInOrder(t *testing.T) {
	doc := NewDocument()
	doc.SetProperty("second", Property{Type: "string"})
	doc.SetProperty("first", Property{Type: "number"})

	out, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	payload := string(out)
	if strings.Index(payload, `"second"`) > strings.Index(payload, `"first"`) {
		t.Fatalf("insertion order not preserved: %s", payload)
	}
}

func TestRoundTripKeepsExtensionKeys(t *testing.T) {
	data := []byte(`{
		"type": "object",
		"properties": {
			"email": {
				"type": "string",
				"format": "email",
				"label": "Work email",
				"placeholder": "you@example.com",
				"inputProps": {"autocomplete": "email"},
				"order": 2
			}
		},
		"required": ["email"]
	}`)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	prop := again.Properties["email"]
	if prop.Label != "Work email" {
		t.Fatalf("label lost: %q", prop.Label)
	}
	if prop.Placeholder != "you@example.com" {
		t.Fatalf("placeholder lost: %q", prop.Placeholder)
	}
	if prop.InputProps["autocomplete"] != "email" {
		t.Fatalf("inputProps lost: %#v", prop.InputProps)
	}
	if prop.Order == nil || *prop.Order != 2 {
		t.Fatalf("order lost: %#v", prop.Order)
	}
	if !again.IsRequired("email") {
		t.Fatal("required lost")
	}
}

func TestParseRejectsDanglingStepReference(t *testing.T) {
	data := []byte(`{
		"type": "object",
		"steps": [{"id": "one", "title": "One"}, {"id": "two", "title": "Two"}],
		"stepGroupMap": {"missing": 1},
		"properties": {"name": {"type": "string"}}
	}`)

	if _, err := Parse(data); err == nil {
		t.Fatal("expected step reference error")
	}
}
