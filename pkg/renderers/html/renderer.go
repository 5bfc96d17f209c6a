// Package html renders a form document as server-side HTML. The outer shell
// (form element, stepper, step panels, actions) goes through the template
// engine so applications can restyle it; per-field control markup is built in
// code from the derived field configuration.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/fieldconfig"
	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/render"
	rendertemplate "github.com/goliatone/go-formschema/pkg/render/template"
	gotemplate "github.com/goliatone/go-formschema/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	templates  rendertemplate.TemplateRenderer
	registry   components.Registry
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithComponents overrides the component registry used to resolve field
// types.
func WithComponents(registry components.Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  components.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.registry.Types()) == 0 {
		cfg.registry = components.Builtin()
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
		templates = engine
	}
	return &Renderer{templates: templates, registry: cfg.registry}, nil
}

func (r *Renderer) Name() string { return "html" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the form markup. Multi-step documents render every step
// panel with only the active one visible, so client code can page through
// without another round trip.
func (r *Renderer) Render(ctx context.Context, doc formschema.Document, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := doc.CheckStepReferences(); err != nil {
		return nil, err
	}

	configs, _ := fieldconfig.Build(doc, fieldconfig.Options{
		Components:    r.registry,
		TypeOverrides: options.TypeOverrides,
	})

	writer := &fieldWriter{
		registry: r.registry,
		values:   options.Values,
		errors:   options.Errors,
	}

	sections, err := r.sections(doc, configs, writer)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(options.Method)
	if method == "" {
		method = "POST"
	}
	hiddenMethod := ""
	if method != "GET" && method != "POST" {
		hiddenMethod = method
		method = "POST"
	}

	data := map[string]any{
		"action":        options.Action,
		"method":        method,
		"hidden_method": hiddenMethod,
		"title":         doc.Title,
		"description":   doc.Description,
		"steps":         stepsContext(doc),
		"current_step":  0,
		"sections":      sections,
		"submit_label":  submitLabel(doc),
		"theme":         themeContext(options.Theme),
	}

	rendered, err := r.templates.RenderTemplate("form", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(rendered), nil
}

// sections groups the document's fields into step panels; an unstepped
// document renders as one untitled panel.
func (r *Renderer) sections(doc formschema.Document, configs map[string]*fieldconfig.Config, writer *fieldWriter) ([]map[string]string, error) {
	if !doc.Stepped() {
		body, err := writer.renderAll(doc, orderedKeys(doc), configs)
		if err != nil {
			return nil, err
		}
		return []map[string]string{{"title": "", "body": body}}, nil
	}

	assignments := doc.StepAssignments()
	grouped := make([][]string, len(doc.Steps))
	for _, key := range orderedKeys(doc) {
		step := assignments[key]
		if step < 0 || step >= len(grouped) {
			step = 0
		}
		grouped[step] = append(grouped[step], key)
	}

	sections := make([]map[string]string, 0, len(doc.Steps))
	for idx, step := range doc.Steps {
		body, err := writer.renderAll(doc, grouped[idx], configs)
		if err != nil {
			return nil, err
		}
		sections = append(sections, map[string]string{"title": step.Title, "body": body})
	}
	return sections, nil
}

// orderedKeys sorts root property keys by their order annotations, keeping
// source order among unannotated keys.
func orderedKeys(doc formschema.Document) []string {
	keys := doc.PropertyKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		oi := doc.Properties[keys[i]].Order
		oj := doc.Properties[keys[j]].Order
		switch {
		case oi != nil && oj != nil:
			return *oi < *oj
		case oi != nil:
			return true
		default:
			return false
		}
	})
	return keys
}

func stepsContext(doc formschema.Document) []map[string]string {
	if !doc.Stepped() {
		return nil
	}
	steps := make([]map[string]string, 0, len(doc.Steps))
	for _, step := range doc.Steps {
		steps = append(steps, map[string]string{"id": step.ID, "title": step.Title})
	}
	return steps
}

func submitLabel(doc formschema.Document) string {
	if doc.Stepped() {
		return "Next"
	}
	return "Submit"
}
