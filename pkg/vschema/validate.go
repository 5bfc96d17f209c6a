package vschema

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Validate checks value against the schema and returns every issue found.
// Failures are data; Validate never panics on malformed input.
func (s *Schema) Validate(value any) Issues {
	issues := s.validateAt("", value)
	if len(s.refinements) > 0 {
		if obj, ok := value.(map[string]any); ok {
			for _, refine := range s.refinements {
				issues = append(issues, refine(obj)...)
			}
		}
	}
	return issues
}

func (s *Schema) validateAt(path string, value any) Issues {
	switch s.kind {
	case KindOptional, KindDefault:
		return s.inner.validateAt(path, value)
	case KindAny:
		return nil
	case KindString:
		return s.validateString(path, value)
	case KindEnum:
		return s.validateEnum(path, value)
	case KindNumber, KindInteger:
		return s.validateNumber(path, value)
	case KindBool:
		if _, ok := value.(bool); !ok {
			return Issues{IssueAt(path, CodeInvalidType, "expected a boolean")}
		}
		return nil
	case KindDate:
		return s.validateDate(path, value)
	case KindObject:
		return s.validateObject(path, value)
	case KindArray:
		return s.validateArray(path, value)
	default:
		return nil
	}
}

func (s *Schema) validateString(path string, value any) Issues {
	str, ok := value.(string)
	if !ok {
		return Issues{IssueAt(path, CodeInvalidType, "expected a string")}
	}
	var issues Issues
	if s.minLength != nil && len([]rune(str)) < *s.minLength {
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodeTooShort,
			Message: fmt.Sprintf("must be at least %d characters", *s.minLength),
			Params:  map[string]any{"min": *s.minLength},
		})
	}
	if s.maxLength != nil && len([]rune(str)) > *s.maxLength {
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodeTooLong,
			Message: fmt.Sprintf("must be at most %d characters", *s.maxLength),
			Params:  map[string]any{"max": *s.maxLength},
		})
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodePattern,
			Message: "does not match the expected pattern",
			Params:  map[string]any{"pattern": s.patternSrc},
		})
	}
	return issues
}

func (s *Schema) validateEnum(path string, value any) Issues {
	str, ok := value.(string)
	if !ok {
		return Issues{IssueAt(path, CodeInvalidType, "expected a string")}
	}
	for _, allowed := range s.enumValues {
		if str == allowed {
			return nil
		}
	}
	return Issues{{
		Path:    path,
		Code:    CodeInvalidEnum,
		Message: "value is not one of the allowed options",
		Params:  map[string]any{"allowed": s.enumValues},
	}}
}

func (s *Schema) validateNumber(path string, value any) Issues {
	num, ok := numericValue(value, s.coerce)
	if !ok {
		return Issues{IssueAt(path, CodeInvalidType, "expected a number")}
	}
	var issues Issues
	if s.kind == KindInteger && num != math.Trunc(num) {
		issues = append(issues, IssueAt(path, CodeInvalidType, "expected an integer"))
	}
	if s.minimum != nil && num < *s.minimum {
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodeTooSmall,
			Message: fmt.Sprintf("must be at least %v", *s.minimum),
			Params:  map[string]any{"min": *s.minimum},
		})
	}
	if s.maximum != nil && num > *s.maximum {
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodeTooBig,
			Message: fmt.Sprintf("must be at most %v", *s.maximum),
			Params:  map[string]any{"max": *s.maximum},
		})
	}
	return issues
}

func (s *Schema) validateDate(path string, value any) Issues {
	when, ok := ParseDateValue(value)
	if !ok {
		return Issues{IssueAt(path, CodeInvalidDate, "invalid date")}
	}
	var issues Issues
	if s.minDate != nil && when.Before(*s.minDate) {
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodeDateBeforeMin,
			Message: fmt.Sprintf("date must not be before %s", s.minDate.Format(time.RFC3339)),
			Params:  map[string]any{"min": s.minDate.Format(time.RFC3339)},
		})
	}
	if s.maxDate != nil && when.After(*s.maxDate) {
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodeDateAfterMax,
			Message: fmt.Sprintf("date must not be after %s", s.maxDate.Format(time.RFC3339)),
			Params:  map[string]any{"max": s.maxDate.Format(time.RFC3339)},
		})
	}
	return issues
}

func (s *Schema) validateObject(path string, value any) Issues {
	obj, ok := value.(map[string]any)
	if !ok {
		return Issues{IssueAt(path, CodeInvalidType, "expected an object")}
	}
	var issues Issues
	for _, key := range s.fieldOrder {
		field := s.fields[key]
		child, present := obj[key]
		if !present || child == nil {
			if field.IsOptional() {
				continue
			}
			issues = append(issues, IssueAt(childPath(path, key), CodeRequired, "value is required"))
			continue
		}
		issues = append(issues, field.validateAt(childPath(path, key), child)...)
	}
	return issues
}

func (s *Schema) validateArray(path string, value any) Issues {
	list, ok := value.([]any)
	if !ok {
		return Issues{IssueAt(path, CodeInvalidType, "expected an array")}
	}
	if s.item == nil {
		return nil
	}
	var issues Issues
	for idx, entry := range list {
		issues = append(issues, s.item.validateAt(path+"/"+strconv.Itoa(idx), entry)...)
	}
	return issues
}

func numericValue(value any, coerce bool) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if !coerce {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ParseDateValue interprets a form value as a date. Both native time values
// and ISO-8601 strings are accepted; callers are expected to preserve
// whichever representation the value already uses.
func ParseDateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if when, err := time.Parse(layout, v); err == nil {
				return when, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
