package routestore

import "fmt"

// DuplicateRouteError reports two configuration entries normalizing to
// the same route key.
type DuplicateRouteError struct {
	Key string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %q", e.Key)
}

// MissingResultsFieldError reports a model whose declared results
// field is absent from the response body, or names something other
// than a sequence.
type MissingResultsFieldError struct {
	ModelKey string
	Field    string
}

func (e *MissingResultsFieldError) Error() string {
	return fmt.Sprintf("route %q: results field %q is missing or not a collection", e.ModelKey, e.Field)
}
