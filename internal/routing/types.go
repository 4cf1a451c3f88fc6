package routing

import (
	"net/url"

	"rewrite-router/internal/pattern"
)

// Params maps captured parameter names to their values: strings for single
// captures, []string for multi-segment captures.
type Params = pattern.Params

// RequestView is the subset of an inbound request the engine needs. The
// dispatch layer builds it once per request; the engine treats it as
// immutable.
type RequestView struct {
	// Headers holds the request headers keyed by lower-cased name. Only the
	// first value of multi-valued headers is carried.
	Headers map[string]string `json:"headers"`

	// Cookies holds the request cookies keyed by name, case preserved.
	Cookies map[string]string `json:"cookies"`

	// Query is the parsed request query string.
	Query url.Values `json:"query"`

	// Host is the request host, possibly including a :port suffix.
	Host string `json:"host"`

	// InitialQueryValues are the undecoded query values exactly as they
	// appeared on the wire. Guard evaluation re-encodes a decoded query
	// value that still appears here verbatim, so downstream comparison sees
	// the original wire encoding.
	InitialQueryValues []string `json:"initial_query_values"`
}

// HasType identifies which request facet a guard condition inspects.
type HasType string

const (
	HasTypeHeader HasType = "header"
	HasTypeCookie HasType = "cookie"
	HasTypeQuery  HasType = "query"
	HasTypeHost   HasType = "host"
)

// RouteHas is a single guard condition. All guards of a rule must pass for
// the rule to apply.
//
// Key is required for header, cookie and query guards and unused for host
// guards. Value is a regular expression the resolved request value must
// match in full; when empty, the guard is a bare existence check and
// contributes the value under the sanitized key name. Absent inverts the
// check: the guard passes only when the facet is missing from the request.
type RouteHas struct {
	Type   HasType `json:"type" yaml:"type"`
	Key    string  `json:"key,omitempty" yaml:"key,omitempty"`
	Value  string  `json:"value,omitempty" yaml:"value,omitempty"`
	Absent bool    `json:"absent,omitempty" yaml:"absent,omitempty"`
}

// RouteKind identifies what a matched rule does to the request.
type RouteKind string

const (
	// KindRedirect answers the request with a redirect to the resolved URL.
	KindRedirect RouteKind = "redirect"
	// KindRewrite forwards the request upstream under the resolved URL.
	KindRewrite RouteKind = "rewrite"
	// KindHeaders adds response headers; values may interpolate params.
	KindHeaders RouteKind = "headers"
)

// RouteRule is a declarative routing directive: match Source (and guards),
// then apply the directive described by Kind.
type RouteRule struct {
	Name                string            `json:"name" yaml:"name"`
	Kind                RouteKind         `json:"kind" yaml:"kind"`
	Source              string            `json:"source" yaml:"source"`
	Destination         string            `json:"destination,omitempty" yaml:"destination,omitempty"`
	StatusCode          int               `json:"status,omitempty" yaml:"status,omitempty"`
	Has                 []RouteHas        `json:"has,omitempty" yaml:"has,omitempty"`
	Missing             []RouteHas        `json:"missing,omitempty" yaml:"missing,omitempty"`
	AppendParamsToQuery bool              `json:"append_params_to_query,omitempty" yaml:"append_params_to_query,omitempty"`
	Headers             map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ResolvedDestination is the fully resolved target of a matched rule.
type ResolvedDestination struct {
	// NewURL is the compiled destination path including any #hash, without
	// the query string.
	NewURL string `json:"new_url"`

	// Pathname is NewURL without the hash fragment.
	Pathname string `json:"pathname"`

	// Hash is the fragment including its leading '#', or empty.
	Hash string `json:"hash"`

	// Query is the merged query mapping: request query first, then captured
	// params (when appended), then the destination's own query.
	Query url.Values `json:"query"`

	// Params are the parameters the resolution was performed with.
	Params Params `json:"params"`
}

// RouteMatch is the outcome of matching a request against the rule list.
type RouteMatch struct {
	// Rule is the rule that matched.
	Rule *RouteRule `json:"rule"`

	// Params are the combined path and guard captures, guard captures
	// winning on key collision.
	Params Params `json:"params"`

	// Destination is the resolved target for redirect and rewrite rules,
	// nil for header rules.
	Destination *ResolvedDestination `json:"destination,omitempty"`

	// Headers are the resolved header directives for header rules, with
	// params interpolated into the values.
	Headers map[string]string `json:"headers,omitempty"`
}
