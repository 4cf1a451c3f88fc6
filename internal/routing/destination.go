package routing

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"rewrite-router/internal/pattern"
)

// Reserved query and parameter keys the dispatch layer uses to carry locale
// information alongside the request query. They are stripped before the
// query is merged into the destination and never auto-appended.
const (
	LocaleQueryKey        = "routeLocale"
	DefaultLocaleQueryKey = "routeDefaultLocale"
	InternalLocaleParam   = "internalLocale"
)

// PrepareDestinationOptions carries the inputs of a destination resolution.
type PrepareDestinationOptions struct {
	// Destination is the rule's destination template, optionally with its
	// own query string and hash fragment.
	Destination string

	// Params are the combined path and guard captures to interpolate.
	Params Params

	// Query is the inbound request query. It is shallow-copied, never
	// mutated.
	Query url.Values

	// AppendParamsToQuery appends captured params to the destination query
	// when the destination path does not already reference any of them.
	AppendParamsToQuery bool
}

// PrepareDestination resolves a rule's destination template against captured
// parameters and the request query.
//
// The resulting query is merged with ascending priority: request query
// values first, then captured params (when appended), then the values the
// destination template declares itself. Later sources win on key collision.
func PrepareDestination(opts PrepareDestinationOptions) (*ResolvedDestination, error) {
	query := CopyValues(opts.Query)
	hadLocale := query.Has(LocaleQueryKey)
	query.Del(LocaleQueryKey)
	query.Del(DefaultLocaleQueryKey)

	parsed, err := url.Parse(opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("parse destination %q: %w", opts.Destination, err)
	}

	destQuery := parsed.Query()
	destPath := parsed.Path
	if parsed.Fragment != "" {
		destPath += "#" + parsed.Fragment
	}

	destPathParams, err := pattern.Keys(destPath)
	if err != nil {
		return nil, err
	}

	// Fill placeholders in the destination's own query values.
	for key, values := range destQuery {
		for i, value := range values {
			compiled, err := compileNonPath(value, opts.Params)
			if err != nil {
				return nil, fmt.Errorf("compile destination query %q: %w", key, err)
			}
			values[i] = compiled
		}
	}

	// Captured params become query entries when the destination path does
	// not consume any of them itself.
	paramKeys := make([]string, 0, len(opts.Params))
	for key := range opts.Params {
		if hadLocale && key == InternalLocaleParam {
			continue
		}
		paramKeys = append(paramKeys, key)
	}

	if opts.AppendParamsToQuery && !anyKeyIn(paramKeys, destPathParams) {
		for _, key := range paramKeys {
			if destQuery.Has(key) {
				continue
			}
			switch v := opts.Params[key].(type) {
			case []string:
				destQuery[key] = append([]string(nil), v...)
			case string:
				destQuery[key] = []string{v}
			default:
				destQuery[key] = []string{fmt.Sprint(v)}
			}
		}
	}

	tmpl, err := pattern.Compile(destPath, pattern.Options{Validate: false})
	if err != nil {
		return nil, err
	}
	newURL, err := tmpl.Expand(opts.Params)
	if err != nil {
		var repeated *pattern.RepeatedParamError
		if errors.As(err, &repeated) {
			return nil, &MultiMatchError{Param: repeated.Name, cause: err}
		}
		return nil, err
	}

	pathname, fragment, hasFragment := strings.Cut(newURL, "#")
	hash := ""
	if hasFragment {
		hash = "#" + fragment
	}

	// The destination's pre-compiled search string is superseded by the
	// merged query mapping.
	finalQuery := query
	for key, values := range destQuery {
		finalQuery[key] = values
	}

	return &ResolvedDestination{
		NewURL:   newURL,
		Pathname: pathname,
		Hash:     hash,
		Query:    finalQuery,
		Params:   opts.Params,
	}, nil
}

// anyKeyIn reports whether any element of keys occurs in set.
func anyKeyIn(keys, set []string) bool {
	for _, key := range keys {
		for _, candidate := range set {
			if key == candidate {
				return true
			}
		}
	}
	return false
}
