package pattern

import (
	"fmt"
	"regexp"
)

// Options controls template compilation.
type Options struct {
	// Validate checks every supplied value against its parameter's value
	// pattern during Expand. Disable it when values are trusted or
	// intentionally contain characters the pattern would reject.
	Validate bool
}

// MissingParamError is returned by Expand when a required parameter has no
// value in the supplied Params.
type MissingParamError struct {
	Name string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("expected %q to be defined", e.Name)
}

// RepeatedParamError is returned by Expand when a []string value is supplied
// for a parameter without a repeat modifier.
type RepeatedParamError struct {
	Name string
}

func (e *RepeatedParamError) Error() string {
	return fmt.Sprintf("expected %q to not repeat, but got an array", e.Name)
}

// EmptyParamError is returned by Expand when an empty []string is supplied
// for a parameter that requires at least one value.
type EmptyParamError struct {
	Name string
}

func (e *EmptyParamError) Error() string {
	return fmt.Sprintf("expected %q to not be empty", e.Name)
}

// InvalidValueError is returned by Expand in validating mode when a supplied
// value does not match the parameter's value pattern.
type InvalidValueError struct {
	Name  string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("expected value %q of %q to match the parameter pattern", e.Value, e.Name)
}

// Template is a compiled path template ready to expand against parameter
// values.
type Template struct {
	tokens   []Token
	matchers []*regexp.Regexp // per-token value matchers, nil entries for literals
	validate bool
}

// Compile parses a template and prepares it for expansion.
func Compile(tmpl string, opts Options) (*Template, error) {
	tokens, err := Parse(tmpl)
	if err != nil {
		return nil, err
	}

	matchers := make([]*regexp.Regexp, len(tokens))
	if opts.Validate {
		for i, tok := range tokens {
			if !tok.IsParam() {
				continue
			}
			re, err := regexp.Compile("^(?:" + tok.Pattern + ")$")
			if err != nil {
				return nil, fmt.Errorf("pattern: invalid value pattern for %q: %w", tok.Name, err)
			}
			matchers[i] = re
		}
	}

	return &Template{tokens: tokens, matchers: matchers, validate: opts.Validate}, nil
}

// MustCompile is like Compile but panics on error. Intended for templates
// known valid at compile time.
func MustCompile(tmpl string, opts Options) *Template {
	t, err := Compile(tmpl, opts)
	if err != nil {
		panic(err)
	}
	return t
}

// Expand builds a path from the template and the supplied parameter values.
// Values may be strings or []string; []string is only accepted for
// parameters with a * or + modifier, and each element becomes its own
// delimiter-prefixed segment.
func (t *Template) Expand(params Params) (string, error) {
	var out []byte

	for i, tok := range t.tokens {
		if !tok.IsParam() {
			out = append(out, tok.Literal...)
			continue
		}

		value, ok := params[tok.Name]
		if !ok || value == nil {
			if tok.optional() {
				continue
			}
			return "", &MissingParamError{Name: tok.Name}
		}

		switch v := value.(type) {
		case []string:
			if !tok.repeated() {
				return "", &RepeatedParamError{Name: tok.Name}
			}
			if len(v) == 0 {
				if tok.optional() {
					continue
				}
				return "", &EmptyParamError{Name: tok.Name}
			}
			for _, segment := range v {
				if err := t.check(i, tok, segment); err != nil {
					return "", err
				}
				out = append(out, tok.Prefix...)
				out = append(out, segment...)
			}

		case string:
			if err := t.check(i, tok, v); err != nil {
				return "", err
			}
			out = append(out, tok.Prefix...)
			out = append(out, v...)

		default:
			segment := fmt.Sprint(v)
			if err := t.check(i, tok, segment); err != nil {
				return "", err
			}
			out = append(out, tok.Prefix...)
			out = append(out, segment...)
		}
	}

	return string(out), nil
}

func (t *Template) check(i int, tok Token, segment string) error {
	if !t.validate || t.matchers[i] == nil {
		return nil
	}
	if !t.matchers[i].MatchString(segment) {
		return &InvalidValueError{Name: tok.Name, Value: segment}
	}
	return nil
}
