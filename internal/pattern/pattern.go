// Package pattern compiles path templates containing :name parameters into
// matchers and path builders.
//
// A template is made of literal text and parameters. A parameter is written
// as :name, optionally followed by a custom regular expression in
// parentheses and a modifier:
//
//	/blog/:slug          single segment parameter
//	/files/:path*        zero or more segments
//	/docs/:chapters+     one or more segments
//	/:lang?/about        optional segment
//	/items/:id(\d+)      parameter with a custom value pattern
//
// A backslash escapes the following character, turning it into literal text:
// `\:name` is the text ":name", not a parameter. Standalone groups such as
// `/(v1|v2)` are supported and receive ordinal names ("0", "1", ...).
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Params maps parameter names to captured or supplied values. Values are
// strings for single parameters and []string for repeated (* or +) ones.
type Params map[string]interface{}

// defaultValuePattern matches a single path segment lazily, the default for
// parameters without a custom group.
const defaultValuePattern = `[^/]+?`

// Token is a single piece of a parsed template. Exactly one of Literal or
// Name is set: literal tokens carry raw text, parameter tokens carry the
// parameter name, the delimiter consumed before it, the value pattern and
// an optional modifier.
type Token struct {
	Literal  string
	Name     string
	Prefix   string
	Pattern  string
	Modifier byte // 0, '*', '+' or '?'
}

// IsParam reports whether the token is a parameter rather than literal text.
func (t Token) IsParam() bool {
	return t.Name != ""
}

// repeated reports whether the parameter accepts multiple values.
func (t Token) repeated() bool {
	return t.Modifier == '*' || t.Modifier == '+'
}

// optional reports whether the parameter may be absent.
func (t Token) optional() bool {
	return t.Modifier == '*' || t.Modifier == '?'
}

// Parse splits a template into literal and parameter tokens.
func Parse(tmpl string) ([]Token, error) {
	var (
		tokens  []Token
		literal strings.Builder
		ordinal int
	)

	flushLiteral := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, Token{Literal: literal.String()})
			literal.Reset()
		}
	}

	// A '/' or '.' immediately before a parameter acts as its delimiter and
	// is consumed into the token's prefix.
	takePrefix := func() string {
		s := literal.String()
		if s == "" {
			return ""
		}
		last := s[len(s)-1]
		if last != '/' && last != '.' {
			return ""
		}
		literal.Reset()
		literal.WriteString(s[:len(s)-1])
		return string(last)
	}

	i := 0
	for i < len(tmpl) {
		switch c := tmpl[i]; c {
		case '\\':
			if i+1 >= len(tmpl) {
				return nil, fmt.Errorf("pattern: trailing escape in %q", tmpl)
			}
			literal.WriteByte(tmpl[i+1])
			i += 2

		case ':':
			name, next := scanName(tmpl, i+1)
			if name == "" {
				return nil, fmt.Errorf("pattern: missing parameter name at index %d in %q", i, tmpl)
			}
			tok := Token{Name: name, Pattern: defaultValuePattern}

			if next < len(tmpl) && tmpl[next] == '(' {
				group, after, err := scanGroup(tmpl, next)
				if err != nil {
					return nil, err
				}
				tok.Pattern = group
				next = after
			}
			if next < len(tmpl) && isModifier(tmpl[next]) {
				tok.Modifier = tmpl[next]
				next++
			}

			tok.Prefix = takePrefix()
			flushLiteral()
			tokens = append(tokens, tok)
			i = next

		case '(':
			group, after, err := scanGroup(tmpl, i)
			if err != nil {
				return nil, err
			}
			tok := Token{Name: strconv.Itoa(ordinal), Pattern: group}
			ordinal++

			if after < len(tmpl) && isModifier(tmpl[after]) {
				tok.Modifier = tmpl[after]
				after++
			}

			tok.Prefix = takePrefix()
			flushLiteral()
			tokens = append(tokens, tok)
			i = after

		default:
			literal.WriteByte(c)
			i++
		}
	}

	flushLiteral()
	return tokens, nil
}

// Keys returns the parameter names referenced by a template, in order.
func Keys(tmpl string) ([]string, error) {
	tokens, err := Parse(tmpl)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, tok := range tokens {
		if tok.IsParam() {
			keys = append(keys, tok.Name)
		}
	}
	return keys, nil
}

// scanName reads a parameter name ([A-Za-z0-9_]+) starting at index i and
// returns the name and the index of the first byte after it.
func scanName(tmpl string, i int) (string, int) {
	j := i
	for j < len(tmpl) && isWordByte(tmpl[j]) {
		j++
	}
	return tmpl[i:j], j
}

// scanGroup reads a parenthesized value pattern starting at the '(' at index
// i and returns the pattern body and the index after the closing ')'.
// Capturing groups inside the pattern are rejected since they would shift
// submatch indexes; use (?:...) instead.
func scanGroup(tmpl string, i int) (string, int, error) {
	depth := 0
	j := i
	for j < len(tmpl) {
		switch tmpl[j] {
		case '\\':
			j++
		case '(':
			if depth > 0 && !strings.HasPrefix(tmpl[j:], "(?") {
				return "", 0, fmt.Errorf("pattern: capturing group inside value pattern at index %d in %q, use (?:...)", j, tmpl)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return tmpl[i+1 : j], j + 1, nil
			}
		}
		j++
	}
	return "", 0, fmt.Errorf("pattern: unbalanced group starting at index %d in %q", i, tmpl)
}

func isModifier(c byte) bool {
	return c == '*' || c == '+' || c == '?'
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
