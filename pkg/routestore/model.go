// Package routestore indexes parsed route definitions into queryable
// models and answers per-request lookups.
//
// A Store is built once from a validated configuration and never
// mutated afterwards; all query methods are safe for concurrent use
// without locking. Reconfiguration builds a whole new Store and swaps
// it through a Handle, so readers observe either the fully-old or the
// fully-new store.
package routestore

import (
	"maps"

	"github.com/jsonecho/jsonecho/internal/matching"
)

// Model is the resolved, immutable representation of one route held by
// the store.
type Model struct {
	identifier   string
	method       string
	pattern      matching.Pattern
	description  string
	idField      string
	resultsField string
	status       int
	headers      map[string]string
	data         any
}

// Identifier returns the normalized "[METHOD] /path" key.
func (m *Model) Identifier() string { return m.identifier }

// Method returns the HTTP method.
func (m *Model) Method() string { return m.method }

// Pattern returns the compiled path pattern.
func (m *Model) Pattern() matching.Pattern { return m.pattern }

// Description returns the route's description, if any.
func (m *Model) Description() string { return m.description }

// IDField returns the field name matched against bound path
// parameters.
func (m *Model) IDField() string { return m.idField }

// ResultsField returns the key nesting the searchable collection, or
// "" when the body itself is the collection.
func (m *Model) ResultsField() string { return m.resultsField }

// Status returns the response status code.
func (m *Model) Status() int { return m.status }

// Headers returns a copy of the route's response headers.
func (m *Model) Headers() map[string]string {
	if m.headers == nil {
		return nil
	}
	return maps.Clone(m.headers)
}

// Data returns the resolved response body. Callers must treat the
// value as read-only.
func (m *Model) Data() any { return m.data }
