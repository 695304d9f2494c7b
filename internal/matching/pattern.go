package matching

import "strings"

// segment is one element of a compiled path pattern: either a literal
// that must match exactly, or a named parameter that binds any single
// non-empty segment.
type segment struct {
	literal string
	param   string
}

func (s segment) isParam() bool { return s.param != "" }

// Pattern is an immutable compiled path pattern. Compile once per
// route at population time; Match never re-parses.
type Pattern struct {
	raw         string
	segments    []segment
	specificity int
}

// CompilePattern parses a path pattern into its segments. Parameter
// segments use ":name" or "{name}" syntax; the two forms are
// equivalent. A nameless marker (":" or "{}") binds nothing and is
// treated as a literal segment.
func CompilePattern(path string) Pattern {
	p := Pattern{raw: path}
	for _, part := range splitSegments(path) {
		switch {
		case strings.HasPrefix(part, ":") && len(part) > 1:
			p.segments = append(p.segments, segment{param: part[1:]})
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") && len(part) > 2:
			p.segments = append(p.segments, segment{param: part[1 : len(part)-1]})
		default:
			p.segments = append(p.segments, segment{literal: part})
		}
	}

	// Specificity is the number of literal segments before the first
	// parameter. When several patterns match one concrete path, the
	// most literal-specific wins.
	for _, seg := range p.segments {
		if seg.isParam() {
			break
		}
		p.specificity++
	}
	return p
}

// String returns the original pattern text.
func (p Pattern) String() string { return p.raw }

// Specificity reports how many literal segments precede the first
// parameter segment.
func (p Pattern) Specificity() int { return p.specificity }

// HasParams reports whether the pattern binds any path parameters.
func (p Pattern) HasParams() bool {
	for _, seg := range p.segments {
		if seg.isParam() {
			return true
		}
	}
	return false
}

// Params returns the parameter names in path order.
func (p Pattern) Params() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.isParam() {
			names = append(names, seg.param)
		}
	}
	return names
}

// Match tests a concrete request path against the pattern. On success
// it returns the bound parameter values; the map is empty (never nil)
// for parameterless patterns.
func (p Pattern) Match(path string) (map[string]string, bool) {
	parts := splitSegments(path)
	if len(parts) != len(p.segments) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range p.segments {
		if seg.isParam() {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// splitSegments breaks a path into its slash-separated segments. The
// root path "/" yields no segments.
func splitSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
