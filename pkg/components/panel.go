package components

import "github.com/goliatone/go-formschema/pkg/vschema"

// Edit-panel schemas. These validate the property dialog for each component
// and are never projected into the target form document, so their field names
// (label, required, defaultValue, ...) cannot collide with target fields.

func basePanelFields() vschema.Fields {
	return vschema.Fields{
		{Key: "label", Schema: vschema.String().Min(1)},
		{Key: "description", Schema: vschema.String().Optional()},
		{Key: "placeholder", Schema: vschema.String().Optional()},
		{Key: "required", Schema: vschema.Bool().Default(false)},
		{Key: "defaultValue", Schema: vschema.Any().Optional()},
	}
}

func basePanelSchema() *vschema.Schema {
	return vschema.Object(basePanelFields())
}

func stringPanelSchema() *vschema.Schema {
	fields := append(basePanelFields(), vschema.Fields{
		{Key: "min", Schema: vschema.Number().Min(0).Optional()},
		{Key: "max", Schema: vschema.Number().Min(0).Optional()},
		{Key: "pattern", Schema: vschema.String().Optional()},
	}...)
	return vschema.Object(fields)
}

func numberPanelSchema() *vschema.Schema {
	fields := append(basePanelFields(), vschema.Fields{
		{Key: "min", Schema: vschema.Number().Optional()},
		{Key: "max", Schema: vschema.Number().Optional()},
	}...)
	return vschema.Object(fields)
}

func textareaPanelSchema() *vschema.Schema {
	fields := append(basePanelFields(), vschema.Fields{
		{Key: "max", Schema: vschema.Number().Min(0).Optional()},
		{Key: "rows", Schema: vschema.Integer().Min(1).Default(3)},
	}...)
	return vschema.Object(fields)
}

func enumPanelSchema() *vschema.Schema {
	fields := append(basePanelFields(), vschema.Fields{
		{Key: "options", Schema: vschema.String().Min(1)},
	}...)
	return vschema.Object(fields)
}
