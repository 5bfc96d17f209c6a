package converter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/vschema"
)

// dateRefinements builds one cross-field pass per date-constrained property.
// The refinement distinguishes an unparseable value from a range violation
// and attaches every failure to the offending field's path.
func dateRefinements(doc formschema.Document) []vschema.Refinement {
	var constrained []dateConstraint
	collectDateConstraints(nil, doc.Properties, &constrained)
	if len(constrained) == 0 {
		return nil
	}

	refinements := make([]vschema.Refinement, 0, len(constrained))
	for _, entry := range constrained {
		refinements = append(refinements, entry.refinement())
	}
	return refinements
}

type dateConstraint struct {
	segments []string
	min      *time.Time
	max      *time.Time
}

func collectDateConstraints(prefix []string, props map[string]formschema.Property, out *[]dateConstraint) {
	for _, key := range sortedPropertyKeys(props) {
		prop := props[key]
		segments := append(append([]string(nil), prefix...), key)
		if prop.Type == "string" && prop.Format == "date-time" &&
			(prop.FormatMinimum != "" || prop.FormatMaximum != "") {
			entry := dateConstraint{segments: segments}
			if when, ok := parseISO(prop.FormatMinimum); ok {
				entry.min = &when
			}
			if when, ok := parseISO(prop.FormatMaximum); ok {
				entry.max = &when
			}
			if entry.min != nil || entry.max != nil {
				*out = append(*out, entry)
			}
		}
		if len(prop.Properties) > 0 {
			collectDateConstraints(segments, prop.Properties, out)
		}
	}
}

func (c dateConstraint) refinement() vschema.Refinement {
	path := "/" + strings.Join(c.segments, "/")
	return func(value map[string]any) vschema.Issues {
		raw, ok := resolvePath(value, c.segments)
		if !ok || raw == nil {
			return nil
		}
		when, ok := vschema.ParseDateValue(raw)
		if !ok {
			// The date node itself reports the unparseable value; range
			// checks only apply to values that parsed.
			return nil
		}
		var issues vschema.Issues
		if c.min != nil && when.Before(*c.min) {
			issues = append(issues, vschema.Issue{
				Path:    path,
				Code:    vschema.CodeDateBeforeMin,
				Message: fmt.Sprintf("date must not be before %s", c.min.Format(time.RFC3339)),
				Params:  map[string]any{"min": c.min.Format(time.RFC3339)},
			})
		}
		if c.max != nil && when.After(*c.max) {
			issues = append(issues, vschema.Issue{
				Path:    path,
				Code:    vschema.CodeDateAfterMax,
				Message: fmt.Sprintf("date must not be after %s", c.max.Format(time.RFC3339)),
				Params:  map[string]any{"max": c.max.Format(time.RFC3339)},
			})
		}
		return issues
	}
}

func resolvePath(value map[string]any, segments []string) (any, bool) {
	var current any = value
	for _, segment := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func parseISO(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if when, err := time.Parse(layout, raw); err == nil {
			return when, true
		}
	}
	return time.Time{}, false
}

func sortedPropertyKeys(props map[string]formschema.Property) []string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func copyStepMap(src map[string]int) map[string]int {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]int, len(src))
	for key, idx := range src {
		out[key] = idx
	}
	return out
}
