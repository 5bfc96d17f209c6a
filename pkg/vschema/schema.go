// Package vschema implements the native validation schema consumed by the
// form tooling. Every node is an explicit tagged variant; there is no
// introspection of wrapper internals, and modifier calls always return a new
// node so shared schema graphs are never mutated in place.
package vschema

import (
	"regexp"
	"time"
)

// Kind tags a schema node variant.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBool
	KindDate
	KindEnum
	KindObject
	KindArray
	KindOptional
	KindDefault
)

// Refinement is a cross-field validation pass executed against the full
// object value after structural validation. It reports its own issue paths.
type Refinement func(value map[string]any) Issues

// Schema is one immutable node of a validation schema tree.
type Schema struct {
	kind Kind

	// Scalar constraints.
	minLength  *int
	maxLength  *int
	minimum    *float64
	maximum    *float64
	pattern    *regexp.Regexp
	patternSrc string
	enumValues []string
	minDate    *time.Time
	maxDate    *time.Time
	coerce     bool

	// Wrapper payload (KindOptional, KindDefault).
	inner        *Schema
	defaultValue any

	// Object payload.
	fields     map[string]*Schema
	fieldOrder []string

	// Array payload.
	item *Schema

	// Root attachments.
	meta        *Meta
	refinements []Refinement
}

// Fields declares an object schema's members in order.
type Fields []Field

// Field pairs a key with its schema.
type Field struct {
	Key    string
	Schema *Schema
}

// Any matches every value.
func Any() *Schema { return &Schema{kind: KindAny} }

// String declares a string scalar.
func String() *Schema { return &Schema{kind: KindString} }

// Number declares a floating-point scalar.
func Number() *Schema { return &Schema{kind: KindNumber} }

// Integer declares an integral scalar.
func Integer() *Schema { return &Schema{kind: KindInteger} }

// Bool declares a boolean scalar.
func Bool() *Schema { return &Schema{kind: KindBool} }

// Date declares a first-class date scalar. JSON Schema cannot express this
// type directly; the converter projects it as string/date-time.
func Date() *Schema { return &Schema{kind: KindDate} }

// Enum declares a string scalar restricted to the given values.
func Enum(values ...string) *Schema {
	return &Schema{kind: KindEnum, enumValues: append([]string(nil), values...)}
}

// Object declares an object schema. Field order is preserved.
func Object(fields Fields) *Schema {
	s := &Schema{kind: KindObject, fields: make(map[string]*Schema, len(fields))}
	for _, field := range fields {
		if field.Key == "" || field.Schema == nil {
			continue
		}
		if _, exists := s.fields[field.Key]; !exists {
			s.fieldOrder = append(s.fieldOrder, field.Key)
		}
		s.fields[field.Key] = field.Schema
	}
	return s
}

// Array declares an array schema with a single item shape.
func Array(item *Schema) *Schema {
	return &Schema{kind: KindArray, item: item}
}

// clone produces a shallow copy suitable for modifier chaining.
func (s *Schema) clone() *Schema {
	dup := *s
	return &dup
}

// amend applies fn to the base node beneath any Optional/Default wrappers,
// rebuilding the wrapper chain around the result. Validation reads
// constraints off the base node, so a modifier called after wrapping must
// land there, not on the wrapper.
func (s *Schema) amend(fn func(dup *Schema)) *Schema {
	if s.kind == KindOptional || s.kind == KindDefault {
		dup := s.clone()
		dup.inner = s.inner.amend(fn)
		return dup
	}
	dup := s.clone()
	fn(dup)
	return dup
}

// Min constrains the minimum: string length for strings, numeric value for
// numbers and integers.
func (s *Schema) Min(n float64) *Schema {
	return s.amend(func(dup *Schema) {
		switch dup.kind {
		case KindString, KindEnum:
			v := int(n)
			dup.minLength = &v
		default:
			v := n
			dup.minimum = &v
		}
	})
}

// Max constrains the maximum, mirroring Min.
func (s *Schema) Max(n float64) *Schema {
	return s.amend(func(dup *Schema) {
		switch dup.kind {
		case KindString, KindEnum:
			v := int(n)
			dup.maxLength = &v
		default:
			v := n
			dup.maximum = &v
		}
	})
}

// Pattern constrains a string scalar to match expr. An invalid expression
// leaves the node unchanged.
func (s *Schema) Pattern(expr string) *Schema {
	re, err := regexp.Compile(expr)
	if err != nil {
		return s
	}
	return s.amend(func(dup *Schema) {
		dup.pattern = re
		dup.patternSrc = expr
	})
}

// MinDate constrains a date scalar's lower bound.
func (s *Schema) MinDate(t time.Time) *Schema {
	return s.amend(func(dup *Schema) {
		dup.minDate = &t
	})
}

// MaxDate constrains a date scalar's upper bound.
func (s *Schema) MaxDate(t time.Time) *Schema {
	return s.amend(func(dup *Schema) {
		dup.maxDate = &t
	})
}

// Optional wraps the node so its absence inside an object is not an error.
func (s *Schema) Optional() *Schema {
	return &Schema{kind: KindOptional, inner: s}
}

// Default wraps the node with a fallback applied when the value is absent.
// Defaulted fields are treated as optional.
func (s *Schema) Default(value any) *Schema {
	return &Schema{kind: KindDefault, inner: s, defaultValue: value}
}

// Coerce returns a new node that accepts string representations of numeric
// values. The receiver is left untouched.
func (s *Schema) Coerce() *Schema {
	return s.amend(func(dup *Schema) {
		dup.coerce = true
	})
}

// Refine attaches a cross-field validation pass at the object root.
func (s *Schema) Refine(fn Refinement) *Schema {
	if fn == nil {
		return s
	}
	dup := s.clone()
	dup.refinements = append(append([]Refinement(nil), s.refinements...), fn)
	return dup
}

// Kind reports the node variant.
func (s *Schema) Kind() Kind { return s.kind }

// Unwrap strips Optional and Default wrappers down to the base node.
func (s *Schema) Unwrap() *Schema {
	node := s
	for node.kind == KindOptional || node.kind == KindDefault {
		node = node.inner
	}
	return node
}

// IsOptional reports whether any wrapper makes the node optional.
func (s *Schema) IsOptional() bool {
	for node := s; node != nil; node = node.inner {
		if node.kind == KindOptional || node.kind == KindDefault {
			return true
		}
	}
	return false
}

// DefaultValue returns the outermost default wrapper's value.
func (s *Schema) DefaultValue() (any, bool) {
	for node := s; node != nil; node = node.inner {
		if node.kind == KindDefault {
			return node.defaultValue, true
		}
	}
	return nil, false
}

// FieldOrder lists an object node's keys in declaration order.
func (s *Schema) FieldOrder() []string {
	return append([]string(nil), s.fieldOrder...)
}

// FieldSchema returns the schema for one object member.
func (s *Schema) FieldSchema(key string) (*Schema, bool) {
	schema, ok := s.fields[key]
	return schema, ok
}

// Item returns the array item schema.
func (s *Schema) Item() *Schema { return s.item }

// MinLength returns the string length lower bound.
func (s *Schema) MinLength() (int, bool) {
	if s.minLength == nil {
		return 0, false
	}
	return *s.minLength, true
}

// MaxLength returns the string length upper bound.
func (s *Schema) MaxLength() (int, bool) {
	if s.maxLength == nil {
		return 0, false
	}
	return *s.maxLength, true
}

// Minimum returns the numeric lower bound.
func (s *Schema) Minimum() (float64, bool) {
	if s.minimum == nil {
		return 0, false
	}
	return *s.minimum, true
}

// Maximum returns the numeric upper bound.
func (s *Schema) Maximum() (float64, bool) {
	if s.maximum == nil {
		return 0, false
	}
	return *s.maximum, true
}

// PatternSource returns the original pattern expression.
func (s *Schema) PatternSource() string { return s.patternSrc }

// EnumValues lists the allowed enum values.
func (s *Schema) EnumValues() []string {
	return append([]string(nil), s.enumValues...)
}

// DateBounds returns the date range constraints.
func (s *Schema) DateBounds() (min, max *time.Time) {
	if s.minDate != nil {
		t := *s.minDate
		min = &t
	}
	if s.maxDate != nil {
		t := *s.maxDate
		max = &t
	}
	return min, max
}
