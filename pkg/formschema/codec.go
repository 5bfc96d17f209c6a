package formschema

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Parse decodes a JSON form-schema document. The top-level property key order
// is captured so later renders can display fields in authoring order.
func Parse(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Document{}, errors.New("formschema: raw document is empty")
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, fmt.Errorf("formschema: parse document: %w", err)
	}
	if doc.Type == "" {
		doc.Type = "object"
	}
	order, err := topLevelPropertyOrder(trimmed)
	if err != nil {
		return Document{}, fmt.Errorf("formschema: scan property order: %w", err)
	}
	doc.propertyOrder = order

	if err := doc.CheckStepReferences(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// MarshalJSON emits the document with properties in display order. The output
// stays valid against the generic JSON Schema object vocabulary; extension
// keys ride along as additive metadata.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeField := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		name, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')
		payload, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(payload)
		return nil
	}

	if d.Schema != "" {
		if err := writeField("$schema", d.Schema); err != nil {
			return nil, err
		}
	}
	if d.Title != "" {
		if err := writeField("title", d.Title); err != nil {
			return nil, err
		}
	}
	if d.Description != "" {
		if err := writeField("description", d.Description); err != nil {
			return nil, err
		}
	}
	docType := d.Type
	if docType == "" {
		docType = "object"
	}
	if err := writeField("type", docType); err != nil {
		return nil, err
	}

	if !first {
		buf.WriteByte(',')
	}
	first = false
	buf.WriteString(`"properties":{`)
	for idx, key := range d.PropertyKeys() {
		if idx > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		payload, err := json.Marshal(d.Properties[key])
		if err != nil {
			return nil, err
		}
		buf.Write(payload)
	}
	buf.WriteByte('}')

	if len(d.Required) > 0 {
		if err := writeField("required", d.Required); err != nil {
			return nil, err
		}
	}
	if len(d.Steps) > 0 {
		if err := writeField(KeySteps, d.Steps); err != nil {
			return nil, err
		}
	}
	if len(d.StepGroupMap) > 0 {
		if err := writeField(KeyStepGroupMap, d.StepGroupMap); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// topLevelPropertyOrder walks the raw JSON tokens and records the key order of
// the root "properties" object.
func topLevelPropertyOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	// Consume the opening brace of the root object.
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("document root must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("unexpected token in document root")
		}
		if key != "properties" {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		open, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := open.(json.Delim); !ok || delim != '{' {
			// properties is not an object; leave order empty and let the
			// typed decode report the shape problem.
			return nil, nil
		}
		var order []string
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, ok := nameTok.(string)
			if !ok {
				return nil, errors.New("unexpected token in properties object")
			}
			order = append(order, name)
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return order, nil
	}
	return nil, nil
}

// skipValue consumes one complete JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{', '[':
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); ok {
				switch d {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}
