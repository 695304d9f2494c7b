// Package config loads, validates, and saves jsonecho configurations.
//
// A configuration describes the mock server: listen address, optional
// static-asset passthrough fields, and a map of route definitions.
// Loading resolves every external response reference, so a loaded
// Config always carries inline response bodies.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Defaults applied while loading.
const (
	DefaultPort        = 3001
	DefaultHostname    = "localhost"
	DefaultStaticRoute = "/static"
	DefaultIDField     = "id"
	DefaultStatus      = 200
)

// Config is the root configuration document.
type Config struct {
	// Port the server listens on. Defaults to 3001.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Hostname the server binds to. Defaults to "localhost".
	Hostname string `json:"hostname,omitempty" yaml:"hostname,omitempty"`

	// StaticFolder and StaticRoute configure static-asset serving.
	// Both are opaque to the core and passed through to the caller.
	StaticFolder string `json:"static_folder,omitempty" yaml:"static_folder,omitempty"`
	StaticRoute  string `json:"static_route,omitempty" yaml:"static_route,omitempty"`

	// Routes maps route keys to definitions, preserving declaration
	// order.
	Routes *RouteMap `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// Route defines one mocked endpoint.
type Route struct {
	// Method is the HTTP method. When set it takes precedence over a
	// "[METHOD]" prefix on the route key; both default to GET.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Description is free-form documentation for the route.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Headers are emitted verbatim by the HTTP layer.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// IDField names the field matched against a bound path parameter.
	// Defaults to "id".
	IDField string `json:"id_field,omitempty" yaml:"id_field,omitempty"`

	// ResultsField, when set, names the key under which the searchable
	// collection is nested inside the response body.
	ResultsField string `json:"results_field,omitempty" yaml:"results_field,omitempty"`

	// Response is the canned response: inline, or a reference to an
	// external JSON file resolved at load time.
	Response Response `json:"response" yaml:"response"`
}

// InlineResponse is a fully specified response.
type InlineResponse struct {
	// Status is the HTTP status code. Defaults to 200.
	Status int `json:"status,omitempty" yaml:"status,omitempty"`

	// Body is the structured response body.
	Body any `json:"body" yaml:"body"`
}

// Response is the tagged union of the two response forms a route may
// declare: an inline {status, body} object or a string naming an
// external JSON file. Exactly one form is set; any other JSON shape is
// rejected at parse time.
type Response struct {
	inline  *InlineResponse
	fileRef string

	// bodyAbsent records that the inline object carried no "body" key,
	// which validation reports as an invalid route.
	bodyAbsent bool
}

// NewInlineResponse builds an inline response value.
func NewInlineResponse(status int, body any) Response {
	return Response{inline: &InlineResponse{Status: status, Body: body}}
}

// NewFileRef builds a file-reference response value.
func NewFileRef(path string) Response {
	return Response{fileRef: path}
}

// IsFileRef reports whether the response is an unresolved file
// reference.
func (r Response) IsFileRef() bool { return r.fileRef != "" }

// FileRef returns the referenced file path, or "" for inline
// responses.
func (r Response) FileRef() string { return r.fileRef }

// IsInline reports whether the response carries an inline body.
func (r Response) IsInline() bool { return r.inline != nil }

// Inline returns the inline response, or nil for file references.
func (r Response) Inline() *InlineResponse { return r.inline }

// IsZero reports whether the route declared no response at all.
func (r Response) IsZero() bool { return r.inline == nil && r.fileRef == "" }

// UnmarshalJSON decodes either response form based on the JSON shape.
func (r *Response) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("response: empty value")
	}

	switch trimmed[0] {
	case '"':
		var ref string
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			return err
		}
		*r = Response{fileRef: ref}
		return nil
	case '{':
		var aux struct {
			Status int             `json:"status"`
			Body   json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(trimmed, &aux); err != nil {
			return err
		}
		inline := &InlineResponse{Status: aux.Status}
		absent := len(aux.Body) == 0
		if !absent {
			if err := json.Unmarshal(aux.Body, &inline.Body); err != nil {
				return err
			}
		}
		*r = Response{inline: inline, bodyAbsent: absent}
		return nil
	default:
		return fmt.Errorf("response must be an object or a file reference string")
	}
}

// MarshalJSON encodes the response in its declared form.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.fileRef != "" {
		return json.Marshal(r.fileRef)
	}
	if r.inline != nil {
		return json.Marshal(r.inline)
	}
	return nil, fmt.Errorf("response: neither inline nor file reference")
}

// UnmarshalYAML decodes either response form from a YAML node.
func (r *Response) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var ref string
		if err := node.Decode(&ref); err != nil {
			return err
		}
		if ref == "" {
			return fmt.Errorf("response: empty file reference")
		}
		*r = Response{fileRef: ref}
		return nil
	case yaml.MappingNode:
		var aux struct {
			Status int       `yaml:"status"`
			Body   yaml.Node `yaml:"body"`
		}
		if err := node.Decode(&aux); err != nil {
			return err
		}
		inline := &InlineResponse{Status: aux.Status}
		absent := aux.Body.Kind == 0
		if !absent {
			if err := aux.Body.Decode(&inline.Body); err != nil {
				return err
			}
		}
		*r = Response{inline: inline, bodyAbsent: absent}
		return nil
	default:
		return fmt.Errorf("response must be a mapping or a file reference string")
	}
}

// MarshalYAML encodes the response in its declared form.
func (r Response) MarshalYAML() (any, error) {
	if r.fileRef != "" {
		return r.fileRef, nil
	}
	if r.inline != nil {
		return r.inline, nil
	}
	return nil, fmt.Errorf("response: neither inline nor file reference")
}
