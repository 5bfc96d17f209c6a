package components

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/model"
)

// Every scalar component must survive a projection round trip: emit its JSON
// Schema shape, dispatch it back through the registry, and land on the same
// component with the same props.
func TestBuiltinRoundTrip(t *testing.T) {
	reg := Builtin()
	min, max := 2.0, 64.0

	cases := []struct {
		component string
		props     model.Props
	}{
		{TypeText, model.Props{Label: "Name", Min: &min, Max: &max, Pattern: "^[a-z]+$"}},
		{TypeEmail, model.Props{Label: "Email", Placeholder: "you@example.com"}},
		{TypePassword, model.Props{Label: "Password", Min: &min}},
		{TypeURL, model.Props{Label: "Homepage"}},
		{TypePhone, model.Props{Label: "Phone"}},
		{TypeTextarea, model.Props{Label: "Bio", Rows: 5, Max: &max}},
		{TypeColor, model.Props{Label: "Accent"}},
		{TypeDate, model.Props{Label: "Published"}},
		{TypeNumber, model.Props{Label: "Price", Min: &min, Max: &max}},
		{TypeCheckbox, model.Props{Label: "Subscribe"}},
		{TypeSwitch, model.Props{Label: "Enabled"}},
		{TypeSelect, model.Props{Label: "Country", Options: "DE\nFR\nES"}},
		{TypeRadio, model.Props{Label: "Size", Options: "S\nM\nL"}},
	}

	for _, tc := range cases {
		t.Run(tc.component, func(t *testing.T) {
			def, ok := reg.Lookup(tc.component)
			if !ok {
				t.Fatalf("definition %s missing", tc.component)
			}

			prop := def.ToJSONSchema(tc.props, true)
			field, ok := reg.Match(prop, "field", true)
			if !ok {
				t.Fatalf("projection of %s did not dispatch", tc.component)
			}
			if field.Type != tc.component {
				t.Fatalf("round trip changed type: %s -> %s", tc.component, field.Type)
			}

			want := tc.props
			want.Required = true
			if diff := cmp.Diff(want, field.Props); diff != "" {
				t.Fatalf("props mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptionsEnumRoundTrip(t *testing.T) {
	enum := enumFromOptions("red\ngreen\nblue")
	if len(enum) != 3 {
		t.Fatalf("enum = %v", enum)
	}
	if got := optionsFromEnum(enum); got != "red\ngreen\nblue" {
		t.Fatalf("options = %q", got)
	}
}
