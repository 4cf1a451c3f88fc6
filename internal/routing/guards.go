package routing

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// compiledHas is a guard with its value pattern pre-compiled, so per-request
// evaluation has no error path.
type compiledHas struct {
	guard RouteHas
	re    *regexp.Regexp // nil for existence and absence checks
}

// compileHas pre-compiles a guard list. Patterns are anchored so a guard
// value must match the resolved request value in full.
func compileHas(guards []RouteHas) ([]compiledHas, error) {
	compiled := make([]compiledHas, 0, len(guards))
	for i, g := range guards {
		c := compiledHas{guard: g}
		if !g.Absent && g.Value != "" {
			re, err := regexp.Compile("^" + g.Value + "$")
			if err != nil {
				return nil, fmt.Errorf("guard %d: invalid value pattern %q: %w", i, g.Value, err)
			}
			c.re = re
		}
		compiled = append(compiled, c)
	}
	return compiled, nil
}

// MatchHas evaluates a conjunction of guard conditions against a request.
// It returns the parameters captured by the passing guards, or ok=false as
// soon as any guard fails; a failing guard never yields partial params.
// An empty guard list always matches with empty params.
//
// Guard patterns are compiled on the fly here; a pattern that does not
// compile is treated as a non-match. Rule registration through the engine
// rejects such patterns up front.
func MatchHas(req *RequestView, guards []RouteHas, query url.Values) (Params, bool) {
	params := make(Params)
	for _, g := range guards {
		c := compiledHas{guard: g}
		if !g.Absent && g.Value != "" {
			re, err := regexp.Compile("^" + g.Value + "$")
			if err != nil {
				return nil, false
			}
			c.re = re
		}
		if !matchOneHas(req, c, query, params) {
			return nil, false
		}
	}
	return params, true
}

// matchCompiledHas is MatchHas over a pre-compiled guard list.
func matchCompiledHas(req *RequestView, guards []compiledHas, query url.Values) (Params, bool) {
	params := make(Params)
	for _, c := range guards {
		if !matchOneHas(req, c, query, params) {
			return nil, false
		}
	}
	return params, true
}

// matchOneHas evaluates a single guard, writing any captured parameters into
// params. A later guard overwrites an earlier one on key collision.
func matchOneHas(req *RequestView, c compiledHas, query url.Values, params Params) bool {
	g := c.guard
	value := resolveHasValue(req, g, query)

	switch {
	case g.Absent:
		// The facet must be missing from the request.
		return value == ""

	case g.Value == "":
		// Bare existence check; the value itself becomes a parameter.
		if value == "" {
			return false
		}
		params[SanitizeParamName(g.Key)] = value
		return true

	default:
		if value == "" {
			return false
		}
		groups := c.re.FindStringSubmatch(value)
		if groups == nil {
			return false
		}
		named := false
		for i, name := range c.re.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			named = true
			params[name] = groups[i]
		}
		if !named && g.Type == HasTypeHost && groups[0] != "" {
			params["host"] = groups[0]
		}
		return true
	}
}

// resolveHasValue extracts the request value a guard inspects. An unknown
// guard type resolves to the empty value.
func resolveHasValue(req *RequestView, g RouteHas, query url.Values) string {
	switch g.Type {
	case HasTypeHeader:
		return req.Headers[strings.ToLower(g.Key)]

	case HasTypeCookie:
		return req.Cookies[g.Key]

	case HasTypeQuery:
		value := query.Get(g.Key)
		if value == "" {
			return ""
		}
		// Preserve the original wire encoding for values that came straight
		// from the initial query string.
		for _, initial := range req.InitialQueryValues {
			if initial == value {
				return percentEncode(value)
			}
		}
		return value

	case HasTypeHost:
		host := req.Host
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		return strings.ToLower(host)

	default:
		return ""
	}
}

// percentEncode query-escapes a value using %20 for spaces, matching the
// percent form a browser puts on the wire.
func percentEncode(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
