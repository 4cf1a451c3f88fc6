package routing

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"rewrite-router/internal/common/logging"
	"rewrite-router/internal/pattern"
)

// RuleEngine holds an ordered list of pre-compiled routing rules and matches
// requests against them, first match wins.
//
// Rules are compiled once at registration: the source path template becomes
// a matcher and every guard pattern a compiled regexp, so Match has no
// per-request compilation and no error path through guard evaluation.
type RuleEngine struct {
	rules     []*compiledRule
	hitCounts map[string]int64
	logger    logging.Logger
	mu        sync.RWMutex
}

// compiledRule contains pre-processed rule data for faster evaluation
type compiledRule struct {
	rule    *RouteRule
	matcher *pattern.Matcher
	has     []compiledHas
	missing []compiledHas
}

// NewRuleEngine creates an engine with no rules.
func NewRuleEngine(logger logging.Logger) *RuleEngine {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &RuleEngine{
		hitCounts: make(map[string]int64),
		logger:    logger,
	}
}

// AddRule validates and compiles a rule and appends it to the evaluation
// order. Rules are evaluated in the order they were added.
func (e *RuleEngine) AddRule(rule *RouteRule) error {
	if rule == nil {
		return ErrInvalidRule
	}
	if err := e.validateRule(rule); err != nil {
		return err
	}

	compiled, err := e.compileRule(rule)
	if err != nil {
		return WrapErrorf(err, "compile rule %q", rule.Name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.rules {
		if existing.rule.Name == rule.Name {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, rule.Name)
		}
	}

	e.rules = append(e.rules, compiled)
	return nil
}

// Rules returns copies of the registered rules in evaluation order.
func (e *RuleEngine) Rules() []*RouteRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]*RouteRule, len(e.rules))
	for i, compiled := range e.rules {
		ruleCopy := *compiled.rule
		ruleCopy.Headers = CopyStringMap(compiled.rule.Headers)
		rules[i] = &ruleCopy
	}
	return rules
}

// HitCounts returns a copy of the per-rule match counters.
func (e *RuleEngine) HitCounts() map[string]int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return CopyInt64Map(e.hitCounts)
}

// Match evaluates the request against the rules in order and resolves the
// first one that applies. It returns nil when no rule matches; an error is
// only returned for genuine rule misconfiguration surfaced during
// destination resolution.
func (e *RuleEngine) Match(req *RequestView, path string) (*RouteMatch, error) {
	e.mu.RLock()
	rules := make([]*compiledRule, len(e.rules))
	copy(rules, e.rules)
	e.mu.RUnlock()

	for _, compiled := range rules {
		pathParams, ok := compiled.matcher.Match(path)
		if !ok {
			continue
		}

		hasParams, ok := matchCompiledHas(req, compiled.has, req.Query)
		if !ok {
			continue
		}

		// Every missing guard must individually fail to match.
		if anyHasMatches(req, compiled.missing, req.Query) {
			continue
		}

		// Guard captures overwrite path captures on key collision.
		params := CopyParams(pathParams)
		for k, v := range hasParams {
			params[k] = v
		}

		match, err := e.resolveMatch(compiled.rule, params, req)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.hitCounts[compiled.rule.Name]++
		e.mu.Unlock()

		e.logger.Debug("rule matched",
			logging.String("rule", compiled.rule.Name),
			logging.String("kind", string(compiled.rule.Kind)),
			logging.String("path", path),
		)
		return match, nil
	}

	return nil, nil
}

// resolveMatch turns a matched rule plus captured params into the directive
// the dispatch layer applies.
func (e *RuleEngine) resolveMatch(rule *RouteRule, params Params, req *RequestView) (*RouteMatch, error) {
	match := &RouteMatch{Rule: rule, Params: params}

	switch rule.Kind {
	case KindRedirect, KindRewrite:
		dest, err := PrepareDestination(PrepareDestinationOptions{
			Destination:         rule.Destination,
			Params:              params,
			Query:               req.Query,
			AppendParamsToQuery: rule.AppendParamsToQuery,
		})
		if err != nil {
			return nil, WrapErrorf(err, "resolve destination of rule %q", rule.Name)
		}
		match.Destination = dest

	case KindHeaders:
		headers := make(map[string]string, len(rule.Headers))
		for name, value := range rule.Headers {
			compiled, err := compileNonPath(value, params)
			if err != nil {
				return nil, WrapErrorf(err, "compile header %q of rule %q", name, rule.Name)
			}
			headers[name] = compiled
		}
		match.Headers = headers

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRouteKind, rule.Kind)
	}

	return match, nil
}

// anyHasMatches reports whether any guard in the list matches on its own.
func anyHasMatches(req *RequestView, guards []compiledHas, query url.Values) bool {
	for _, c := range guards {
		scratch := make(Params)
		if matchOneHas(req, c, query, scratch) {
			return true
		}
	}
	return false
}

func (e *RuleEngine) compileRule(rule *RouteRule) (*compiledRule, error) {
	matcher, err := pattern.NewMatcher(rule.Source)
	if err != nil {
		return nil, WrapErrorf(err, "source %q", rule.Source)
	}

	has, err := compileHas(rule.Has)
	if err != nil {
		return nil, err
	}
	missing, err := compileHas(rule.Missing)
	if err != nil {
		return nil, err
	}

	return &compiledRule{rule: rule, matcher: matcher, has: has, missing: missing}, nil
}

func (e *RuleEngine) validateRule(rule *RouteRule) error {
	validKinds := []string{string(KindRedirect), string(KindRewrite), string(KindHeaders)}

	validators := []ValidatorFunc{
		func() error { return ValidateRequired(rule.Name, "rule name") },
		func() error { return ValidateRequired(rule.Source, "rule source") },
		func() error { return ValidateRequired(string(rule.Kind), "rule kind") },
		func() error { return ValidateInSet(string(rule.Kind), validKinds, "rule kind") },

		func() error {
			return ValidateConditional(
				rule.Kind == KindRedirect || rule.Kind == KindRewrite,
				func() error { return ValidateRequired(rule.Destination, "rule destination") },
			)
		},
		func() error {
			return ValidateConditional(
				rule.Kind == KindRedirect && rule.StatusCode != 0,
				func() error {
					if rule.StatusCode < http.StatusMultipleChoices || rule.StatusCode > http.StatusPermanentRedirect {
						return ValidationError{Field: "status", Message: "must be a redirect status code", Value: rule.StatusCode}
					}
					return nil
				},
			)
		},
		func() error {
			return ValidateConditional(
				rule.Kind == KindHeaders,
				func() error {
					if len(rule.Headers) == 0 {
						return ValidationError{Field: "headers", Message: "must have at least one header"}
					}
					return nil
				},
			)
		},

		func() error {
			for i, guard := range rule.Has {
				if err := validateHas(&guard); err != nil {
					return WrapErrorf(err, "has condition %d is invalid", i)
				}
			}
			return nil
		},
		func() error {
			for i, guard := range rule.Missing {
				if err := validateHas(&guard); err != nil {
					return WrapErrorf(err, "missing condition %d is invalid", i)
				}
			}
			return nil
		},
	}

	return RunValidators(validators...)
}

func validateHas(guard *RouteHas) error {
	keyRequiredTypes := []HasType{HasTypeHeader, HasTypeCookie, HasTypeQuery}

	validators := []ValidatorFunc{
		func() error { return ValidateRequired(string(guard.Type), "condition type") },
		func() error {
			if !SliceContains([]HasType{HasTypeHeader, HasTypeCookie, HasTypeQuery, HasTypeHost}, guard.Type) {
				return fmt.Errorf("%w: %s", ErrUnsupportedHasType, guard.Type)
			}
			return nil
		},
		func() error {
			return ValidateConditional(
				SliceContains(keyRequiredTypes, guard.Type),
				func() error { return ValidateRequired(guard.Key, "condition key") },
			)
		},
	}

	return RunValidators(validators...)
}
