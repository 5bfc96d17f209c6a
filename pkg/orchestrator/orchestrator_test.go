package orchestrator

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formschema/pkg/formschema"
	pkgopenapi "github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/vschema"
)

// captureRenderer records what the orchestrator hands it.
type captureRenderer struct {
	doc     formschema.Document
	options render.Options
}

func (c *captureRenderer) Name() string        { return "capture" }
func (c *captureRenderer) ContentType() string { return "text/plain" }
func (c *captureRenderer) Render(_ context.Context, doc formschema.Document, options render.Options) ([]byte, error) {
	c.doc = doc
	c.options = options
	return []byte("captured"), nil
}

type stubSelector struct {
	selection *theme.Selection
	err       error
}

func (s stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, s.err
}

func captureOrchestrator(capture *captureRenderer, extra ...Option) *Orchestrator {
	opts := append([]Option{
		WithRenderer(capture),
		WithDefaultRenderer("capture"),
	}, extra...)
	return New(opts...)
}

func simpleDoc() formschema.Document {
	doc := formschema.NewDocument()
	doc.SetProperty("name", formschema.Property{Type: "string"})
	doc.Required = []string{"name"}
	return doc
}

func TestGenerateFromDocument(t *testing.T) {
	capture := &captureRenderer{}
	doc := simpleDoc()

	out, err := captureOrchestrator(capture).Generate(context.Background(), Request{Document: &doc})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "captured" {
		t.Fatalf("output = %q", out)
	}
	if _, ok := capture.doc.Properties["name"]; !ok {
		t.Fatalf("document not forwarded: %v", capture.doc.PropertyKeys())
	}
}

func TestGenerateFromNativeSchema(t *testing.T) {
	capture := &captureRenderer{}
	schema := vschema.Object(vschema.Fields{
		{Key: "email", Schema: vschema.String()},
	})

	if _, err := captureOrchestrator(capture).Generate(context.Background(), Request{Schema: schema}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if capture.doc.Properties["email"].Type != "string" {
		t.Fatalf("converted document wrong: %#v", capture.doc)
	}
}

func TestGenerateFromOpenAPISource(t *testing.T) {
	spec := `{
	  "openapi": "3.0.3",
	  "info": {"title": "t", "version": "1"},
	  "paths": {},
	  "components": {
	    "schemas": {
	      "Contact": {
	        "type": "object",
	        "required": ["email"],
	        "properties": {"email": {"type": "string", "format": "email"}}
	      }
	    }
	  }
	}`
	files := fstest.MapFS{"api.json": &fstest.MapFile{Data: []byte(spec)}}
	capture := &captureRenderer{}
	orch := captureOrchestrator(capture, WithLoader(pkgopenapi.NewLoader(pkgopenapi.WithFileSystem(files))))

	_, err := orch.Generate(context.Background(), Request{
		Source:    pkgopenapi.SourceFromFS("api.json"),
		Component: "Contact",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if capture.doc.Properties["email"].Format != "email" {
		t.Fatalf("imported document wrong: %#v", capture.doc)
	}
}

func TestGenerateRequiresADocumentSource(t *testing.T) {
	if _, err := New().Generate(context.Background(), Request{}); err == nil {
		t.Fatal("empty request accepted")
	}
}

func TestGenerateUnknownRenderer(t *testing.T) {
	doc := simpleDoc()
	if _, err := New().Generate(context.Background(), Request{Document: &doc, Renderer: "ghost"}); err == nil {
		t.Fatal("unknown renderer resolved")
	}
}

func TestGenerateNilContext(t *testing.T) {
	doc := simpleDoc()
	var missing context.Context
	if _, err := New().Generate(missing, Request{Document: &doc}); err == nil {
		t.Fatal("nil context accepted")
	}
}

func TestGenerateResolvesTheme(t *testing.T) {
	capture := &captureRenderer{}
	selector := stubSelector{selection: &theme.Selection{
		Theme:   "plain",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "plain",
			Tokens: map[string]string{"accent": "#ff0000"},
		},
	}}
	orch := captureOrchestrator(capture,
		WithThemeSelector(selector),
		WithAssetResolver(func(selection *theme.Selection, asset string) string {
			return "/themes/" + selection.Theme + "/" + asset
		}),
	)

	doc := simpleDoc()
	_, err := orch.Generate(context.Background(), Request{
		Document:     &doc,
		ThemeName:    "plain",
		ThemeVariant: "dark",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	cfg := capture.options.Theme
	if cfg == nil || cfg.Theme != "plain" || cfg.Variant != "dark" {
		t.Fatalf("theme config = %#v", cfg)
	}
	if cfg.CSSVars["--accent"] != "#ff0000" || cfg.Tokens["accent"] != "#ff0000" {
		t.Fatalf("tokens = %#v", cfg)
	}
	if cfg.AssetURL == nil || cfg.AssetURL("form.css") != "/themes/plain/form.css" {
		t.Fatal("asset resolver not wired")
	}
}

func TestGenerateThemeSelectorFailure(t *testing.T) {
	orch := captureOrchestrator(&captureRenderer{},
		WithThemeSelector(stubSelector{err: errors.New("unknown theme")}))

	doc := simpleDoc()
	if _, err := orch.Generate(context.Background(), Request{Document: &doc, ThemeName: "ghost"}); err == nil {
		t.Fatal("selector failure swallowed")
	}
}

func TestRequestThemePassesThroughWithoutSelector(t *testing.T) {
	capture := &captureRenderer{}
	own := &theme.RendererConfig{Theme: "custom"}

	doc := simpleDoc()
	_, err := captureOrchestrator(capture).Generate(context.Background(), Request{
		Document:      &doc,
		RenderOptions: render.Options{Theme: own},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if capture.options.Theme != own {
		t.Fatalf("theme replaced: %#v", capture.options.Theme)
	}
}
