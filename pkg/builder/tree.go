// Package builder manipulates the canvas field tree and converts it to and
// from the JSON Schema document format. Mutation helpers take the current
// field list and return a new one; the tree is never modified in place, so a
// caller-owned state queue can serialize updates safely.
package builder

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/model"
)

// NewField creates a field for a freshly dropped palette item, seeding the
// component's default props and generating an id unique among siblings.
func NewField(reg components.Registry, typeName string, siblings []model.Field) (model.Field, error) {
	def, ok := reg.Lookup(typeName)
	if !ok {
		return model.Field{}, fmt.Errorf("builder: unknown component type %q", typeName)
	}
	return model.Field{
		ID:    uniqueID(typeName, siblings),
		Type:  def.Type,
		Props: def.DefaultProps,
	}, nil
}

func uniqueID(base string, siblings []model.Field) string {
	taken := make(map[string]struct{}, len(siblings))
	for _, field := range siblings {
		taken[field.ID] = struct{}{}
	}
	if _, exists := taken[base]; !exists {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}

// Append adds a field to the end of the list.
func Append(fields []model.Field, field model.Field) []model.Field {
	out := model.CloneFields(fields)
	return append(out, field)
}

// Remove deletes the field with the given id, searching nested trees. The
// input list is untouched; removing an unknown id returns an equal copy.
func Remove(fields []model.Field, id string) []model.Field {
	out := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		if field.ID == id {
			continue
		}
		dup := field.Clone()
		dup.Children = Remove(dup.Children, id)
		dup.ItemTemplate = Remove(dup.ItemTemplate, id)
		out = append(out, dup)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Move repositions a top-level field to index. Out-of-range targets clamp to
// the list bounds; unknown ids return an equal copy.
func Move(fields []model.Field, id string, index int) []model.Field {
	out := model.CloneFields(fields)
	from := -1
	for idx, field := range out {
		if field.ID == id {
			from = idx
			break
		}
	}
	if from < 0 {
		return out
	}
	if index < 0 {
		index = 0
	}
	if index >= len(out) {
		index = len(out) - 1
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:index], append([]model.Field{moved}, out[index:]...)...)
	return out
}

// Rename changes a field's id. A rename that collides with an existing
// sibling id is rejected before any mutation: the returned tree equals the
// input and a diagnostic reports the rejection. This is local bookkeeping,
// not schema validation, so no error is raised.
func Rename(fields []model.Field, oldID, newID string) ([]model.Field, []components.Diagnostic) {
	if oldID == newID || newID == "" {
		return model.CloneFields(fields), nil
	}
	renamed, diags, _ := renameIn(fields, oldID, newID)
	return renamed, diags
}

func renameIn(fields []model.Field, oldID, newID string) ([]model.Field, []components.Diagnostic, bool) {
	target := -1
	for idx, field := range fields {
		if field.ID == oldID {
			target = idx
		}
	}
	if target >= 0 {
		for _, field := range fields {
			if field.ID == newID {
				return model.CloneFields(fields), []components.Diagnostic{{
					Path:    oldID,
					Code:    "duplicate_field_id",
					Message: fmt.Sprintf("cannot rename %q to %q: sibling with that id already exists", oldID, newID),
				}}, true
			}
		}
		out := model.CloneFields(fields)
		out[target].ID = newID
		return out, nil, true
	}

	out := model.CloneFields(fields)
	for idx := range out {
		if children, diags, done := renameIn(out[idx].Children, oldID, newID); done {
			out[idx].Children = children
			return out, diags, true
		}
		if items, diags, done := renameIn(out[idx].ItemTemplate, oldID, newID); done {
			out[idx].ItemTemplate = items
			return out, diags, true
		}
	}
	return out, nil, false
}

// UpdateProps replaces the props of the field with the given id, searching
// nested trees.
func UpdateProps(fields []model.Field, id string, props model.Props) []model.Field {
	out := model.CloneFields(fields)
	updatePropsIn(out, id, props)
	return out
}

func updatePropsIn(fields []model.Field, id string, props model.Props) bool {
	for idx := range fields {
		if fields[idx].ID == id {
			fields[idx].Props = props
			return true
		}
		if updatePropsIn(fields[idx].Children, id, props) {
			return true
		}
		if updatePropsIn(fields[idx].ItemTemplate, id, props) {
			return true
		}
	}
	return false
}

// AssignStep tags a top-level field with a step index. A nil index clears the
// assignment.
func AssignStep(fields []model.Field, id string, step *int) []model.Field {
	out := model.CloneFields(fields)
	for idx := range out {
		if out[idx].ID != id {
			continue
		}
		if step == nil {
			out[idx].StepGroup = nil
		} else {
			value := *step
			out[idx].StepGroup = &value
		}
	}
	return out
}
