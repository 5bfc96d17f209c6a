package html

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// rendererTheme is the template-facing view of a theme configuration.
type rendererTheme struct {
	Name         string            `json:"Name"`
	Variant      string            `json:"Variant"`
	Tokens       map[string]string `json:"Tokens"`
	CSSVars      map[string]string `json:"CSSVars"`
	CSSVarsStyle string            `json:"CSSVarsStyle"`
	Stylesheet   string            `json:"Stylesheet"`
}

func themeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL("form.css")
	}
	return ctx
}

// cssVarsStyle flattens the variable map into an inline style string with
// deterministic ordering.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		key := name
		if !strings.HasPrefix(key, "--") {
			key = "--" + key
		}
		fmt.Fprintf(&b, "%s: %s; ", key, vars[name])
	}
	return strings.TrimSpace(b.String())
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
