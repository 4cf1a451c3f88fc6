package pattern

import (
	"regexp"
	"strings"
)

// Matcher tests request paths against a compiled template and extracts the
// parameter values of matching paths.
type Matcher struct {
	re     *regexp.Regexp
	params []Token // parameter tokens in capture-group order
}

// NewMatcher compiles a template into an anchored path matcher.
func NewMatcher(tmpl string) (*Matcher, error) {
	tokens, err := Parse(tmpl)
	if err != nil {
		return nil, err
	}

	var (
		expr   strings.Builder
		params []Token
	)
	expr.WriteString("^")

	for _, tok := range tokens {
		if !tok.IsParam() {
			expr.WriteString(regexp.QuoteMeta(tok.Literal))
			continue
		}
		params = append(params, tok)

		prefix := regexp.QuoteMeta(tok.Prefix)
		single := "(?:" + tok.Pattern + ")"

		switch tok.Modifier {
		case '?':
			expr.WriteString("(?:" + prefix + "(" + tok.Pattern + "))?")
		case '+':
			expr.WriteString(prefix + "(" + single + "(?:/" + single + ")*)")
		case '*':
			expr.WriteString("(?:" + prefix + "(" + single + "(?:/" + single + ")*))?")
		default:
			expr.WriteString(prefix + "(" + tok.Pattern + ")")
		}
	}

	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re, params: params}, nil
}

// MustMatcher is like NewMatcher but panics on error.
func MustMatcher(tmpl string) *Matcher {
	m, err := NewMatcher(tmpl)
	if err != nil {
		panic(err)
	}
	return m
}

// Match tests a path against the template. On success it returns the
// captured parameters: single parameters as strings, repeated ones split on
// the segment delimiter into []string. Optional parameters that did not
// participate in the match are omitted.
func (m *Matcher) Match(path string) (Params, bool) {
	groups := m.re.FindStringSubmatch(path)
	if groups == nil {
		return nil, false
	}

	params := make(Params, len(m.params))
	for i, tok := range m.params {
		captured := groups[i+1]
		if captured == "" && tok.optional() {
			continue
		}
		if tok.repeated() {
			params[tok.Name] = strings.Split(captured, "/")
		} else {
			params[tok.Name] = captured
		}
	}
	return params, true
}

// Keys returns the parameter names the matcher captures, in order.
func (m *Matcher) Keys() []string {
	keys := make([]string, len(m.params))
	for i, tok := range m.params {
		keys[i] = tok.Name
	}
	return keys
}
