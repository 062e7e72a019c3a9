// Package localejson implements the flat locale JSON files written by sheetsync.
//
// One file per language, keyed by translation key:
//
//	{
//	  "greeting": "안녕",
//	  "farewell": "_N/A"
//	}
//
// Keys are written in insertion order with 2-space indentation and no
// trailing newline, so identical input always produces identical bytes.
package localejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the file extension of locale files.
const Ext = ".json"

// Map is an insertion-ordered translation key -> value mapping.
type Map struct {
	keys   []string
	values map[string]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]string)}
}

// Set assigns value to key. A key that is already present keeps its
// original position and takes the new value.
func (m *Map) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Path returns the locale file path for a language inside dir.
func Path(dir, lang string) string {
	return filepath.Join(dir, lang+Ext)
}

// Marshal produces the JSON object for m.
func (m *Map) Marshal() []byte {
	if m == nil || len(m.keys) == 0 {
		return []byte("{}")
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, k := range m.keys {
		fmt.Fprintf(&b, "  %s: %s", jsonString(k), jsonString(m.values[k]))
		if i < len(m.keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")

	return []byte(b.String())
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m *Map) error {
	if err := os.WriteFile(path, m.Marshal(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ParseFile reads a locale file back into a Map, preserving key order.
func ParseFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a flat JSON object of strings, preserving key order.
func Parse(data []byte) (*Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected {, got %v", t)
	}

	m := New()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		vt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		value, ok := vt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for key %q, got %T", key, vt)
		}

		m.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return m, nil
}

// jsonString returns s as a JSON string literal without HTML escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string value cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
