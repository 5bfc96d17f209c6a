package vschema

import (
	"testing"
	"time"
)

func TestValidateObjectRequiredAndOptional(t *testing.T) {
	schema := Object(Fields{
		{Key: "name", Schema: String().Min(1)},
		{Key: "nickname", Schema: String().Optional()},
	})

	issues := schema.Validate(map[string]any{"name": "ada"})
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}

	issues = schema.Validate(map[string]any{})
	if len(issues) != 1 || issues[0].Code != CodeRequired {
		t.Fatalf("expected one required issue, got %v", issues)
	}
	if issues[0].FieldPath() != "name" {
		t.Fatalf("issue path = %q", issues[0].FieldPath())
	}
}

func TestValidateNilValueIsAbsent(t *testing.T) {
	schema := Object(Fields{
		{Key: "maybe", Schema: String().Optional()},
	})
	if issues := schema.Validate(map[string]any{"maybe": nil}); len(issues) != 0 {
		t.Fatalf("nil optional produced issues: %v", issues)
	}

	required := Object(Fields{{Key: "must", Schema: String()}})
	issues := required.Validate(map[string]any{"must": nil})
	if len(issues) != 1 || issues[0].Code != CodeRequired {
		t.Fatalf("nil required should read as absent, got %v", issues)
	}
}

func TestValidateStringBoundsAndPattern(t *testing.T) {
	schema := Object(Fields{
		{Key: "code", Schema: String().Min(2).Max(4).Pattern(`^[A-Z]+$`)},
	})

	cases := []struct {
		name  string
		value string
		code  string
	}{
		{"too short", "A", CodeTooShort},
		{"too long", "ABCDE", CodeTooLong},
		{"bad pattern", "abc", CodePattern},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := schema.Validate(map[string]any{"code": tc.value})
			if len(issues) == 0 {
				t.Fatal("expected issues")
			}
			found := false
			for _, issue := range issues {
				if issue.Code == tc.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("missing code %s in %v", tc.code, issues)
			}
		})
	}

	if issues := schema.Validate(map[string]any{"code": "ABC"}); len(issues) != 0 {
		t.Fatalf("valid value failed: %v", issues)
	}
}

func TestValidateIntegerRejectsFraction(t *testing.T) {
	schema := Object(Fields{{Key: "count", Schema: Integer().Min(0)}})

	if issues := schema.Validate(map[string]any{"count": 3.5}); len(issues) == 0 {
		t.Fatal("fractional integer accepted")
	}
	if issues := schema.Validate(map[string]any{"count": float64(3)}); len(issues) != 0 {
		t.Fatalf("whole float rejected: %v", issues)
	}
}

func TestValidateCoerceParsesStrings(t *testing.T) {
	strict := Object(Fields{{Key: "n", Schema: Number()}})
	if issues := strict.Validate(map[string]any{"n": "42"}); len(issues) == 0 {
		t.Fatal("strict number accepted a string")
	}

	coercing := Object(Fields{{Key: "n", Schema: Number().Coerce()}})
	if issues := coercing.Validate(map[string]any{"n": "42"}); len(issues) != 0 {
		t.Fatalf("coerced number rejected: %v", issues)
	}
}

func TestValidateEnum(t *testing.T) {
	schema := Object(Fields{{Key: "color", Schema: Enum("red", "green")}})

	if issues := schema.Validate(map[string]any{"color": "red"}); len(issues) != 0 {
		t.Fatalf("allowed value rejected: %v", issues)
	}
	issues := schema.Validate(map[string]any{"color": "blue"})
	if len(issues) != 1 || issues[0].Code != CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", issues)
	}
}

func TestValidateDateAcceptsBothRepresentations(t *testing.T) {
	schema := Object(Fields{{Key: "when", Schema: Date()}})

	if issues := schema.Validate(map[string]any{"when": time.Now()}); len(issues) != 0 {
		t.Fatalf("time.Time rejected: %v", issues)
	}
	if issues := schema.Validate(map[string]any{"when": "2024-06-15T00:00:00Z"}); len(issues) != 0 {
		t.Fatalf("ISO string rejected: %v", issues)
	}
	issues := schema.Validate(map[string]any{"when": "not a date"})
	if len(issues) != 1 || issues[0].Code != CodeInvalidDate {
		t.Fatalf("expected invalid_date, got %v", issues)
	}
}

func TestValidateDateBounds(t *testing.T) {
	min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	schema := Object(Fields{{Key: "when", Schema: Date().MinDate(min)}})

	issues := schema.Validate(map[string]any{"when": "2023-06-15T00:00:00Z"})
	if len(issues) != 1 || issues[0].Code != CodeDateBeforeMin {
		t.Fatalf("expected date_before_minimum, got %v", issues)
	}
	if issues := schema.Validate(map[string]any{"when": "2024-06-15T00:00:00Z"}); len(issues) != 0 {
		t.Fatalf("in-range date rejected: %v", issues)
	}
}

func TestValidateNestedObjectPaths(t *testing.T) {
	schema := Object(Fields{
		{Key: "author", Schema: Object(Fields{
			{Key: "email", Schema: String().Min(3)},
		})},
	})

	issues := schema.Validate(map[string]any{
		"author": map[string]any{"email": "x"},
	})
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if issues[0].Path != "/author/email" {
		t.Fatalf("path = %q", issues[0].Path)
	}
	if issues[0].FieldPath() != "author.email" {
		t.Fatalf("field path = %q", issues[0].FieldPath())
	}
}

func TestValidateRefinementsRunOnObjects(t *testing.T) {
	schema := Object(Fields{
		{Key: "start", Schema: Date().Optional()},
		{Key: "end", Schema: Date().Optional()},
	}).Refine(func(value map[string]any) Issues {
		start, okStart := ParseDateValue(value["start"])
		end, okEnd := ParseDateValue(value["end"])
		if okStart && okEnd && end.Before(start) {
			return Issues{IssueAt("/end", "range_inverted", "end before start")}
		}
		return nil
	})

	issues := schema.Validate(map[string]any{
		"start": "2024-06-01T00:00:00Z",
		"end":   "2024-05-01T00:00:00Z",
	})
	if len(issues) != 1 || issues[0].Code != "range_inverted" {
		t.Fatalf("refinement not applied: %v", issues)
	}
}

func TestParseDateValue(t *testing.T) {
	when := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	got, ok := ParseDateValue(when)
	if !ok || !got.Equal(when) {
		t.Fatalf("time passthrough failed: %v %v", got, ok)
	}
	got, ok = ParseDateValue("2024-06-15")
	if !ok || got.Year() != 2024 || got.Month() != time.June {
		t.Fatalf("date-only parse failed: %v %v", got, ok)
	}
	if _, ok := ParseDateValue(42); ok {
		t.Fatal("number parsed as date")
	}
}

func TestIssuesErrorSummarizes(t *testing.T) {
	issues := Issues{
		IssueAt("/a", CodeRequired, "missing"),
		IssueAt("/b", CodeTooShort, "short"),
	}
	if issues.Error() == "" {
		t.Fatal("empty error string")
	}
}

func TestWithMetaRoundTrip(t *testing.T) {
	schema := Object(Fields{{Key: "a", Schema: String()}})
	if _, ok := MetaOf(schema); ok {
		t.Fatal("bare schema carries meta")
	}

	tagged := schema.WithMeta(Meta{StepGroupMap: map[string]int{"a": 0}})
	meta, ok := MetaOf(tagged)
	if !ok || meta.StepGroupMap["a"] != 0 {
		t.Fatalf("meta lost: %v %v", meta, ok)
	}
	if _, ok := MetaOf(schema); ok {
		t.Fatal("WithMeta mutated the receiver")
	}
}
