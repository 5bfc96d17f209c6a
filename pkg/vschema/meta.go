package vschema

import "github.com/goliatone/go-formschema/pkg/formschema"

// Meta carries form metadata the schema itself has no vocabulary for. It is
// attached out-of-band at the schema root and must be re-threaded explicitly
// whenever a schema is rebuilt from an imported document, because generic
// importers drop unrecognized root keys.
type Meta struct {
	Steps        []formschema.Step
	StepGroupMap map[string]int
}

// WithMeta attaches form metadata, returning a new root node.
func (s *Schema) WithMeta(meta Meta) *Schema {
	dup := s.clone()
	copied := Meta{
		Steps: append([]formschema.Step(nil), meta.Steps...),
	}
	if len(meta.StepGroupMap) > 0 {
		copied.StepGroupMap = make(map[string]int, len(meta.StepGroupMap))
		for key, idx := range meta.StepGroupMap {
			copied.StepGroupMap[key] = idx
		}
	}
	dup.meta = &copied
	return dup
}

// MetaOf recovers metadata previously attached with WithMeta.
func MetaOf(s *Schema) (Meta, bool) {
	if s == nil || s.meta == nil {
		return Meta{}, false
	}
	return *s.meta, true
}
