package formschema

import (
	"context"
	"strings"
	"testing"
)

const signupSchema = `{
  "type": "object",
  "title": "Sign Up",
  "required": ["email"],
  "properties": {
    "email": {"type": "string", "format": "email", "label": "Email"},
    "age": {"type": "number", "minimum": 18}
  }
}`

func TestParseAndGenerateHTML(t *testing.T) {
	doc, err := Parse([]byte(signupSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out, err := GenerateHTML(context.Background(), doc, RenderOptions{Action: "/signup", Method: "POST"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{`action="/signup"`, `name="email"`, `type="email"`, "Sign Up"} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestDocumentSchemaRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(signupSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	schema, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("from document: %v", err)
	}
	if issues := schema.Validate(map[string]any{"age": float64(30)}); len(issues) == 0 {
		t.Fatal("missing required email accepted")
	}
	if issues := schema.Validate(map[string]any{"email": "a@b.c"}); len(issues) != 0 {
		t.Fatalf("valid payload rejected: %v", issues)
	}

	back, err := ToDocument(schema)
	if err != nil {
		t.Fatalf("to document: %v", err)
	}
	if back.Properties["age"].Type != "number" {
		t.Fatalf("round trip lost age: %#v", back.Properties["age"])
	}
}

func TestNewControllerSteps(t *testing.T) {
	schema := `{
	  "type": "object",
	  "properties": {
	    "name": {"type": "string"},
	    "age": {"type": "number"}
	  },
	  "steps": [{"id": "a", "title": "A"}, {"id": "b", "title": "B"}],
	  "stepGroupMap": {"name": 0, "age": 1}
	}`
	doc, err := Parse([]byte(schema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctrl, err := NewController(doc)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if !ctrl.Stepped() || len(ctrl.Steps()) != 2 {
		t.Fatalf("controller not stepped: %v", ctrl.Steps())
	}

	if sub := ctrl.SubmitStep(map[string]any{"name": "Ada"}); sub.Done {
		t.Fatal("finished after first step")
	}
	sub := ctrl.SubmitStep(map[string]any{"age": float64(30)})
	if !sub.Done || sub.Values["name"] != "Ada" {
		t.Fatalf("submission = %#v", sub)
	}
}
