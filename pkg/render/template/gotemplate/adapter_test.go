package gotemplate

import (
	"strings"
	"testing"
	"testing/fstest"
)

func testEngine(t *testing.T, options ...Option) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"greeting.tpl": &fstest.MapFile{Data: []byte("Hello {{ name }}!")},
	}
	engine, err := New(append([]Option{WithFS(files)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNewRequiresTemplateSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("engine built without a template source")
	}
}

func TestRenderTemplateAppendsExtension(t *testing.T) {
	engine := testEngine(t)
	out, err := engine.RenderTemplate("greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello Ada!" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderRoutesInlineContent(t *testing.T) {
	engine := testEngine(t)
	out, err := engine.Render("{{ name }} was here", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Ada was here" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderStringWritesToWriters(t *testing.T) {
	engine := testEngine(t)
	var sink strings.Builder
	out, err := engine.RenderString("{{ value }}", map[string]any{"value": 42}, &sink)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "42" || sink.String() != "42" {
		t.Fatalf("out = %q, sink = %q", out, sink.String())
	}
}

func TestStructDataTakesJSONNames(t *testing.T) {
	engine := testEngine(t)
	data := struct {
		FullName string `json:"fullName"`
	}{FullName: "Ada"}

	out, err := engine.RenderString("{{ fullName }}", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Ada" {
		t.Fatalf("out = %q", out)
	}
}

func TestFunctionDataRejected(t *testing.T) {
	engine := testEngine(t)
	if _, err := engine.RenderString("{{ x }}", func() {}); err == nil {
		t.Fatal("function data accepted")
	}
}

func TestHumanizeFilter(t *testing.T) {
	engine := testEngine(t)
	out, err := engine.RenderString("{{ key|humanize }}", map[string]any{"key": "first_name"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "First Name" {
		t.Fatalf("out = %q", out)
	}
}

func TestGlobalContext(t *testing.T) {
	engine := testEngine(t)
	if err := engine.GlobalContext(map[string]any{"brand": "formschema"}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	out, err := engine.RenderString("{{ brand }}", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "formschema" {
		t.Fatalf("out = %q", out)
	}
}

func TestRegisterFilter(t *testing.T) {
	engine := testEngine(t)
	err := engine.RegisterFilter("shout", func(input, _ any) (any, error) {
		return strings.ToUpper(strings.TrimSpace(toString(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	out, err := engine.RenderString("{{ word|shout }}", map[string]any{"word": "quiet"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "QUIET" {
		t.Fatalf("out = %q", out)
	}

	if err := engine.RegisterFilter("shout", func(input, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatal("duplicate filter accepted")
	}
}

func toString(value any) string {
	str, _ := value.(string)
	return str
}

func TestUnknownTemplateErrors(t *testing.T) {
	engine := testEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatal("unknown template rendered")
	}
}
