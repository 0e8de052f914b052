package document

import (
	"bytes"
	"encoding/json"
)

// Map is a string-keyed mapping that preserves insertion order.
//
// OpenAPI semantics in this codebase depend on source order in two places:
// the "first entry wins" rule for a response's examples mapping, and the
// "first media type encountered" fallback when no JSON media type is present.
// Go's built-in map randomizes iteration, so every mapping decoded from a
// source document is represented as a *Map instead.
//
// All read accessors are safe to call on a nil *Map, which allows chained
// lookups like doc.Map("components").Map("schemas") without nil checks at
// each step.
type Map struct {
	keys  []string
	items map[string]any
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{items: make(map[string]any)}
}

// Set stores value under key. A new key is appended to the iteration order;
// an existing key keeps its original position.
func (m *Map) Set(key string, value any) {
	if _, exists := m.items[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.items[key] = value
}

// Get returns the value stored under key and whether the key is present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.items[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Value returns the value stored under key, or nil if absent.
func (m *Map) Value(key string) any {
	v, _ := m.Get(key)
	return v
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// First returns the first entry in insertion order.
func (m *Map) First() (key string, value any, ok bool) {
	if m.Len() == 0 {
		return "", nil, false
	}
	return m.keys[0], m.items[m.keys[0]], true
}

// Map returns the value under key as a *Map, or nil if the key is absent
// or the value is not a mapping.
func (m *Map) Map(key string) *Map {
	v, _ := m.Get(key)
	mm, _ := v.(*Map)
	return mm
}

// Slice returns the value under key as a []any, or nil if the key is absent
// or the value is not a sequence.
func (m *Map) Slice(key string) []any {
	v, _ := m.Get(key)
	s, _ := v.([]any)
	return s
}

// String returns the value under key as a string, or "" if the key is absent
// or the value is not a string.
func (m *Map) String(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

// Bool returns the value under key as a bool, or false if the key is absent
// or the value is not a bool.
func (m *Map) Bool(key string) bool {
	v, _ := m.Get(key)
	b, _ := v.(bool)
	return b
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
// HTML characters in values are not escaped.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalCompact(m.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalCompact marshals v as compact JSON without HTML escaping.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
