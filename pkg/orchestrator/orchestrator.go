// Package orchestrator wires the pipeline end to end: resolve a form document
// (from a stored schema, a native schema, or an OpenAPI source), resolve a
// theme, pick a renderer and produce output. Every stage can be injected;
// missing stages fall back to the built-in implementations.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formschema/pkg/converter"
	"github.com/goliatone/go-formschema/pkg/formschema"
	pkgopenapi "github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/vschema"
)

const defaultRendererName = "html"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLoader injects the OpenAPI document loader.
func WithLoader(loader *pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithRenderer registers an additional renderer on the default registry.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		o.extraRenderers = append(o.extraRenderers, renderer)
	}
}

// WithDefaultRenderer names the renderer used when a request does not pick
// one.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.defaultRenderer = name
		}
	}
}

// WithThemeSelector registers a go-theme selector so requests can resolve
// theme and variant names into renderer configuration.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks supplies partials merged under every resolved theme.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithAssetResolver customizes how resolved themes map asset names to URLs.
func WithAssetResolver(resolver func(selection *theme.Selection, asset string) string) Option {
	return func(o *Orchestrator) {
		o.assetResolver = resolver
	}
}

// Orchestrator coordinates document resolution, theming and rendering.
type Orchestrator struct {
	loader          *pkgopenapi.Loader
	registry        *render.Registry
	defaultRenderer string
	extraRenderers  []render.Renderer
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	assetResolver   func(*theme.Selection, string) string

	initErr error
}

// New constructs an Orchestrator, filling unset stages with the built-ins.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = pkgopenapi.NewLoader()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initErr = fmt.Errorf("orchestrator: configure html renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	for _, renderer := range o.extraRenderers {
		if renderer == nil {
			continue
		}
		if err := o.registry.Register(renderer); err != nil {
			o.initErr = fmt.Errorf("orchestrator: register renderer: %w", err)
			return
		}
	}
	o.extraRenderers = nil
}

// Request describes one render.
type Request struct {
	// Document supplies a ready form document; it wins over the other
	// sources.
	Document *formschema.Document

	// Schema supplies a native validation schema converted on the fly.
	Schema *vschema.Schema

	// Source plus Component or OperationID imports from an OpenAPI document.
	Source      pkgopenapi.Source
	Component   string
	OperationID string

	// Renderer names the output renderer; empty uses the default.
	Renderer string

	// ThemeName and ThemeVariant are resolved through the configured theme
	// selector when present.
	ThemeName    string
	ThemeVariant string

	// RenderOptions passes through to the renderer. A theme resolved from
	// ThemeName takes precedence over RenderOptions.Theme.
	RenderOptions render.Options
}

// Generate resolves the request's document and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.initErr != nil {
		return nil, o.initErr
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if cfg, err := o.resolveTheme(req); err != nil {
		return nil, err
	} else if cfg != nil {
		options.Theme = cfg
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, doc, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (formschema.Document, error) {
	switch {
	case req.Document != nil:
		return *req.Document, nil
	case req.Schema != nil:
		doc, err := converter.ToFormSchema(req.Schema, nil)
		if err != nil {
			return formschema.Document{}, fmt.Errorf("orchestrator: convert schema: %w", err)
		}
		return doc, nil
	case req.Source != nil:
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return formschema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
		}
		doc, err := pkgopenapi.Import(ctx, loaded, pkgopenapi.ImportOptions{
			Component:   req.Component,
			OperationID: req.OperationID,
		})
		if err != nil {
			return formschema.Document{}, fmt.Errorf("orchestrator: import document: %w", err)
		}
		return doc, nil
	default:
		return formschema.Document{}, errors.New("orchestrator: request needs a document, schema, or source")
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", target, err)
	}
	return renderer, nil
}
