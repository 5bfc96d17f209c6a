package orchestrator

import (
	"fmt"

	theme "github.com/goliatone/go-theme"
)

// resolveTheme turns a request's theme name into renderer configuration via
// the configured selector. Without a selector or a theme name it returns nil
// and the request's own RenderOptions.Theme stands.
func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil || req.ThemeName == "" {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolve theme %q: %w", req.ThemeName, err)
	}
	if selection == nil {
		return nil, nil
	}
	return o.rendererConfig(selection), nil
}

// rendererConfig projects a theme selection into the flat structure renderers
// consume. Manifest tokens double as CSS variables so templates can inline
// them without another lookup.
func (o *Orchestrator) rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergePartials(o.themeFallbacks, nil),
	}
	if manifest := selection.Manifest; manifest != nil && len(manifest.Tokens) > 0 {
		cfg.Tokens = make(map[string]string, len(manifest.Tokens))
		cfg.CSSVars = make(map[string]string, len(manifest.Tokens))
		for name, value := range manifest.Tokens {
			cfg.Tokens[name] = value
			cfg.CSSVars["--"+name] = value
		}
	}
	if o.assetResolver != nil {
		resolver := o.assetResolver
		cfg.AssetURL = func(asset string) string {
			return resolver(selection, asset)
		}
	}
	return cfg
}

func mergePartials(fallbacks, overrides map[string]string) map[string]string {
	if len(fallbacks) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(fallbacks)+len(overrides))
	for key, value := range fallbacks {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}
