// Package matching normalizes route keys and compiles path patterns.
//
// Keys and patterns are parsed once, at store population time, and the
// resulting values are immutable. Nothing here touches the filesystem
// or shared state, so every function is safe for concurrent use.
package matching

import (
	"fmt"
	"strings"
)

// knownMethods are the HTTP methods a route key may declare.
var knownMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// UnknownMethodError reports a route key or definition naming an HTTP
// method outside the supported set.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown HTTP method %q", e.Method)
}

// Key is the normalized (method, path) identity of a route.
type Key struct {
	Method string
	Path   string
}

// String renders the canonical "[METHOD] /path" form.
func (k Key) String() string {
	return "[" + k.Method + "] " + k.Path
}

// NormalizeKey derives the canonical route identity from a raw
// configuration key and the route's optional method field.
//
// The definition's method field, when set, takes precedence over a
// "[METHOD]" prefix on the key; the prefix in turn takes precedence
// over the GET default. Methods compare case-insensitively. An empty
// or unrecognized method is an error, even in a prefix the definition
// overrides.
func NormalizeKey(rawKey, defMethod string) (Key, error) {
	keyMethod, path, bracketed := splitBracketedKey(rawKey)
	if bracketed {
		keyMethod = strings.ToUpper(keyMethod)
		if !knownMethods[keyMethod] {
			return Key{}, &UnknownMethodError{Method: keyMethod}
		}
	}

	method := strings.ToUpper(strings.TrimSpace(defMethod))
	if method == "" {
		method = keyMethod
	}
	if method == "" {
		method = "GET"
	}
	if !knownMethods[method] {
		return Key{}, &UnknownMethodError{Method: method}
	}
	if path == "" {
		return Key{}, fmt.Errorf("empty route path")
	}
	return Key{Method: method, Path: path}, nil
}

// splitBracketedKey pulls an optional "[METHOD]" prefix off a route
// key. A key without a closing bracket is treated as a bare path.
func splitBracketedKey(raw string) (method, path string, bracketed bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") {
		return "", raw, false
	}
	end := strings.IndexByte(raw, ']')
	if end < 0 {
		return "", raw, false
	}
	return strings.TrimSpace(raw[1:end]), strings.TrimSpace(raw[end+1:]), true
}
