package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v4"
)

// maxNodeDepth bounds decoding of pathological alias chains.
const maxNodeDepth = 10000

// DecodeYAML parses YAML data into the order-preserving generic model:
// mappings become *Map, sequences become []any, scalars become their
// resolved Go values.
func DecodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("document: failed to parse YAML: %w", err)
	}
	if root.Kind == 0 {
		// Empty input.
		return nil, nil
	}
	return decodeNode(&root, 0)
}

func decodeNode(n *yaml.Node, depth int) (any, error) {
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("document: YAML nesting exceeds %d levels", maxNodeDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeNode(n.Content[0], depth+1)

	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			key := keyNode.Value
			if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
				key = keyNode.Alias.Value
			}
			value, err := decodeNode(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(key, value)
		}
		return m, nil

	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nil
		}
		return decodeNode(n.Alias, depth+1)

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			// Fall back to the raw scalar text for exotic tags.
			return n.Value, nil
		}
		return v, nil

	default:
		return nil, fmt.Errorf("document: unsupported YAML node kind %d", n.Kind)
	}
}

// DecodeJSON parses JSON data into the order-preserving generic model.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("document: failed to parse JSON: %w", err)
	}
	// Reject trailing garbage after the first value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("document: unexpected content after JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, float64, bool, or nil
		return tok, nil
	}

	switch delim {
	case '{':
		m := NewMap()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, value)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return m, nil

	case '[':
		s := make([]any, 0)
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
