package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RouteMap is an insertion-ordered map from route key to definition.
// Declaration order in the configuration document is preserved so
// store enumeration and match tie-breaking are deterministic.
type RouteMap struct {
	keys   []string
	routes map[string]*Route
}

// NewRouteMap returns an empty route map.
func NewRouteMap() *RouteMap {
	return &RouteMap{routes: make(map[string]*Route)}
}

// Len returns the number of routes.
func (m *RouteMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the route keys in declaration order.
func (m *RouteMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get looks up a route by its raw key.
func (m *RouteMap) Get(key string) (*Route, bool) {
	if m == nil {
		return nil, false
	}
	r, ok := m.routes[key]
	return r, ok
}

// Set inserts or replaces a route, appending new keys at the end.
func (m *RouteMap) Set(key string, route *Route) {
	if m.routes == nil {
		m.routes = make(map[string]*Route)
	}
	if _, exists := m.routes[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.routes[key] = route
}

// UnmarshalJSON decodes a JSON object, recording key order as the
// decoder encounters it.
func (m *RouteMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("routes must be an object")
	}

	m.keys = nil
	m.routes = make(map[string]*Route)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("routes: unexpected token %v", tok)
		}

		var route Route
		if err := dec.Decode(&route); err != nil {
			return fmt.Errorf("route %q: %w", key, err)
		}
		if _, dup := m.routes[key]; dup {
			return fmt.Errorf("route %q: declared twice", key)
		}
		m.keys = append(m.keys, key)
		m.routes[key] = &route
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the routes as a JSON object in declaration
// order.
func (m *RouteMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.routes[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping, preserving key order.
func (m *RouteMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("routes must be a mapping")
	}

	m.keys = nil
	m.routes = make(map[string]*Route)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}

		var route Route
		if err := valNode.Decode(&route); err != nil {
			return fmt.Errorf("route %q: %w", key, err)
		}
		if _, dup := m.routes[key]; dup {
			return fmt.Errorf("route %q: declared twice", key)
		}
		m.keys = append(m.keys, key)
		m.routes[key] = &route
	}
	return nil
}

// MarshalYAML encodes the routes as a mapping in declaration order.
func (m *RouteMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range m.keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(m.routes[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
