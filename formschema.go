// Package formschema is the top-level entry point: it re-exports the core
// document and schema types and offers one-call helpers for the common flows.
// The heavy lifting lives in the pkg packages; start here and drop down when
// you need the full API.
package formschema

import (
	"context"

	"github.com/goliatone/go-formschema/pkg/converter"
	fsdoc "github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/orchestrator"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/tui"
	"github.com/goliatone/go-formschema/pkg/stepform"
	"github.com/goliatone/go-formschema/pkg/vschema"
)

// Core types re-exported for callers that only need the basics.
type (
	Document = fsdoc.Document
	Property = fsdoc.Property
	Step     = fsdoc.Step

	Schema = vschema.Schema
	Issue  = vschema.Issue
	Issues = vschema.Issues

	RenderOptions = render.Options
)

// Parse decodes a JSON form document, preserving property order.
func Parse(data []byte) (Document, error) {
	return fsdoc.Parse(data)
}

// ParseYAML decodes a YAML form document.
func ParseYAML(data []byte) (Document, error) {
	return fsdoc.ParseYAML(data)
}

// ToDocument projects a native validation schema into a form document.
func ToDocument(schema *Schema) (Document, error) {
	return converter.ToFormSchema(schema, nil)
}

// FromDocument builds a native validation schema from a form document.
func FromDocument(doc Document) (*Schema, error) {
	return converter.FromFormSchema(doc)
}

// NewOrchestrator exposes the pipeline constructor from the module root.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders a form document with the built-in HTML renderer.
func GenerateHTML(ctx context.Context, doc Document, options RenderOptions) ([]byte, error) {
	gen := orchestrator.New()
	return gen.Generate(ctx, orchestrator.Request{
		Document:      &doc,
		RenderOptions: options,
	})
}

// NewController builds a multi-step form controller for a document.
func NewController(doc Document, options ...stepform.Option) (*stepform.Controller, error) {
	return stepform.New(doc, options...)
}

// RunTUI fills a form interactively in the terminal and returns the
// validated values.
func RunTUI(ctx context.Context, doc Document, options ...tui.SessionOption) (map[string]any, error) {
	session, err := tui.NewSession(doc, options...)
	if err != nil {
		return nil, err
	}
	return session.Run(ctx)
}
