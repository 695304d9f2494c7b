package config

import "fmt"

// MalformedError reports a document that could not be parsed.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed configuration %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// SchemaError reports a document that parsed but violates the
// configuration schema.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// InvalidRouteError reports a route definition with a missing or
// invalid field.
type InvalidRouteError struct {
	Key    string
	Reason string
}

func (e *InvalidRouteError) Error() string {
	return fmt.Sprintf("invalid route %q: %s", e.Key, e.Reason)
}

// ExternalResponseError wraps a failure to read or parse a route's
// external response file. A single bad reference invalidates the whole
// configuration.
type ExternalResponseError struct {
	Key  string
	Path string
	Err  error
}

func (e *ExternalResponseError) Error() string {
	return fmt.Sprintf("route %q: external response %s: %v", e.Key, e.Path, e.Err)
}

func (e *ExternalResponseError) Unwrap() error { return e.Err }
