// Package render defines the renderer contract and registry. Renderers turn a
// form document plus its derived field configuration into an output format;
// the library ships an HTML renderer and a terminal renderer, and callers can
// register their own.
package render

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formschema/pkg/formschema"
)

// Renderer converts a form document into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc formschema.Document, options Options) ([]byte, error)
}

// Options carries per-request data renderers can use without mutating the
// document.
type Options struct {
	// Action is the submit target; Method the HTTP verb. Renderers that only
	// support GET/POST translate other verbs into a hidden _method input.
	Action string
	Method string
	// Values pre-populates controls keyed by dotted field path.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field path.
	Errors map[string][]string
	// Theme configures tokens, CSS variables and asset resolution.
	Theme *theme.RendererConfig
	// TypeOverrides supplies stored field-type choices consulted when a
	// property carries no explicit fieldType.
	TypeOverrides map[string]string
}
