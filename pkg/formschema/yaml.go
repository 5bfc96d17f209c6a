package formschema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML form-schema document. The YAML node tree is
// rewritten into JSON first so mapping key order survives into the document's
// display order.
func ParseYAML(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Document{}, errors.New("formschema: raw document is empty")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(trimmed, &root); err != nil {
		return Document{}, fmt.Errorf("formschema: parse yaml: %w", err)
	}

	var buf bytes.Buffer
	if err := yamlNodeToJSON(&buf, &root); err != nil {
		return Document{}, fmt.Errorf("formschema: convert yaml: %w", err)
	}
	return Parse(buf.Bytes())
}

func yamlNodeToJSON(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return yamlNodeToJSON(buf, node.Content[0])
	case yaml.MappingNode:
		buf.WriteByte('{')
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			if idx > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(node.Content[idx].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := yamlNodeToJSON(buf, node.Content[idx+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for idx, item := range node.Content {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := yamlNodeToJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return yamlScalarToJSON(buf, node)
	case yaml.AliasNode:
		if node.Alias == nil {
			buf.WriteString("null")
			return nil
		}
		return yamlNodeToJSON(buf, node.Alias)
	default:
		return fmt.Errorf("unsupported yaml node kind %d", node.Kind)
	}
}

func yamlScalarToJSON(buf *bytes.Buffer, node *yaml.Node) error {
	switch strings.TrimPrefix(strings.TrimPrefix(node.Tag, "tag:yaml.org,2002:"), "!!") {
	case "null":
		buf.WriteString("null")
		return nil
	case "bool", "int", "float":
		var value any
		if err := node.Decode(&value); err != nil {
			return err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(payload)
		return nil
	default:
		payload, err := json.Marshal(node.Value)
		if err != nil {
			return err
		}
		buf.Write(payload)
		return nil
	}
}
