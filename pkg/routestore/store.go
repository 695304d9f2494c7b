package routestore

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/jsonecho/jsonecho/internal/matching"
	"github.com/jsonecho/jsonecho/pkg/config"
)

// Store holds the queryable models built from one configuration. It is
// immutable after Populate and safe for concurrent readers.
type Store struct {
	models []*Model
	index  map[string]*Model

	// resultsExprs caches the compiled results-field path per model
	// identifier so queries never re-parse it.
	resultsExprs map[string]jp.Expr
}

// New returns an empty store.
func New() *Store {
	return &Store{
		index:        make(map[string]*Model),
		resultsExprs: make(map[string]jp.Expr),
	}
}

// Populate builds one model per route, keyed by the normalized
// (method, path) identity, preserving configuration order. Two entries
// normalizing to the same key abort the whole call with
// DuplicateRouteError and leave the store unchanged; there is no
// partial population.
func (s *Store) Populate(routes *config.RouteMap) error {
	models := make([]*Model, 0, routes.Len())
	index := make(map[string]*Model, routes.Len())
	exprs := make(map[string]jp.Expr)

	for _, rawKey := range routes.Keys() {
		route, _ := routes.Get(rawKey)

		key, err := matching.NormalizeKey(rawKey, route.Method)
		if err != nil {
			return &config.InvalidRouteError{Key: rawKey, Reason: err.Error()}
		}

		id := key.String()
		if _, dup := index[id]; dup {
			return &DuplicateRouteError{Key: id}
		}

		model := &Model{
			identifier:   id,
			method:       key.Method,
			pattern:      matching.CompilePattern(key.Path),
			description:  route.Description,
			idField:      route.IDField,
			resultsField: route.ResultsField,
			status:       config.DefaultStatus,
			headers:      route.Headers,
			data:         map[string]any{},
		}
		if model.idField == "" {
			model.idField = config.DefaultIDField
		}
		if inline := route.Response.Inline(); inline != nil {
			model.status = inline.Status
			model.data = inline.Body
		}

		if model.resultsField != "" {
			// Lenient load, strict query: a results field that does
			// not parse is reported when the model is queried.
			if expr, err := jp.ParseString(model.resultsField); err == nil {
				exprs[id] = expr
			}
		}

		models = append(models, model)
		index[id] = model
	}

	s.models = models
	s.index = index
	s.resultsExprs = exprs
	return nil
}

// Len returns the number of models.
func (s *Store) Len() int { return len(s.models) }

// GetModel looks a model up by its normalized "[METHOD] /path" key.
func (s *Store) GetModel(identifier string) (*Model, bool) {
	m, ok := s.index[identifier]
	return m, ok
}

// Models returns all models in configuration order.
func (s *Store) Models() []*Model {
	out := make([]*Model, len(s.models))
	copy(out, s.models)
	return out
}

// FindMatching matches a concrete request path against every stored
// pattern for the given method. When several patterns match, the one
// with more literal segments before its first parameter wins; ties go
// to the first-declared route. The params map carries the bound path
// parameters.
func (s *Store) FindMatching(method, path string) (*Model, map[string]string, bool) {
	method = strings.ToUpper(strings.TrimSpace(method))

	var best *Model
	var bestParams map[string]string
	bestSpec := -1

	for _, m := range s.models {
		if m.method != method {
			continue
		}
		params, ok := m.pattern.Match(path)
		if !ok {
			continue
		}
		// Strictly-greater keeps the first-declared model on ties.
		if spec := m.pattern.Specificity(); spec > bestSpec {
			best = m
			bestParams = params
			bestSpec = spec
		}
	}

	if best == nil {
		return nil, nil, false
	}
	return best, bestParams, true
}

// ResolveRecord locates the record matching a bound path parameter
// inside a model's collection. The collection is the model's data, or
// the sequence under its results field when one is declared. A missing
// record is a nil result, not an error; only a declared results field
// that is absent or not a sequence is.
func (s *Store) ResolveRecord(model *Model, param, value string) (any, error) {
	coll, err := s.collection(model)
	if err != nil {
		return nil, err
	}

	// Only the model's identifier field participates in matching.
	if param != model.idField {
		return nil, nil
	}

	switch c := coll.(type) {
	case []any:
		for _, item := range c {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if field, ok := obj[model.idField]; ok && coerceString(field) == value {
				return item, nil
			}
		}
	case map[string]any:
		// A single object stands in for a one-element collection.
		if field, ok := c[model.idField]; ok && coerceString(field) == value {
			return c, nil
		}
	}
	return nil, nil
}

// collection extracts the searchable collection from a model's data.
func (s *Store) collection(model *Model) (any, error) {
	if model.resultsField == "" {
		return model.data, nil
	}

	expr, ok := s.resultsExprs[model.identifier]
	if !ok {
		return nil, &MissingResultsFieldError{ModelKey: model.identifier, Field: model.resultsField}
	}

	results := expr.Get(model.data)
	if len(results) == 0 {
		return nil, &MissingResultsFieldError{ModelKey: model.identifier, Field: model.resultsField}
	}
	if _, isSeq := results[0].([]any); !isSeq {
		return nil, &MissingResultsFieldError{ModelKey: model.identifier, Field: model.resultsField}
	}
	return results[0], nil
}

// coerceString renders a scalar through its string representation so
// numeric identifiers compare equal to their path-segment encoding.
func coerceString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case bool:
		return strconv.FormatBool(n)
	default:
		return ""
	}
}
