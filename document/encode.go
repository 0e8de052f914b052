package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeJSON marshals v as pretty-printed JSON with two-space indentation.
// HTML characters and non-ASCII text are written as-is, not escaped.
// The output does not end with a trailing newline.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// JSONSafe returns a value that is guaranteed to marshal as JSON.
// Containers are walked recursively; any leaf that cannot be marshaled
// (YAML timestamps, binary data, ...) is replaced by its string form.
func JSONSafe(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *Map:
		if t == nil {
			return nil
		}
		safe := NewMap()
		for _, key := range t.Keys() {
			safe.Set(key, JSONSafe(t.Value(key)))
		}
		return safe
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = JSONSafe(item)
		}
		return out
	case string, bool, int, int64, float64, uint64, json.Number:
		return t
	default:
		if _, err := json.Marshal(t); err == nil {
			return t
		}
		return fmt.Sprintf("%v", t)
	}
}
