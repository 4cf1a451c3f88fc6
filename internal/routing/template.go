package routing

import (
	"strings"

	"rewrite-router/internal/pattern"
)

// nonPathMetaChars are the path-template metacharacters that must be escaped
// when they appear as literal text in a non-path value.
const nonPathMetaChars = ":*?+(){}"

// compileNonPath fills :name placeholders into a value that is not itself a
// path, such as a destination query value. Only names present in params are
// treated as placeholders; every other template metacharacter in the value
// is literal text. A value without a colon cannot contain a placeholder and
// is returned unchanged.
func compileNonPath(value string, params Params) (string, error) {
	if !strings.Contains(value, ":") {
		return value, nil
	}

	// The compiler needs a leading slash to treat the first placeholder as a
	// path segment; strip it back off the result.
	tmpl, err := pattern.Compile("/"+escapeNonPath(value, params), pattern.Options{Validate: false})
	if err != nil {
		return "", err
	}
	out, err := tmpl.Expand(params)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(out, "/"), nil
}

// escapeNonPath tokenizes a value into literal and placeholder spans and
// renders it as a safe path template: recognized placeholders keep their
// syntax (including a trailing * ? + modifier), all other metacharacters are
// backslash-escaped. A :name is a placeholder only when name is a key of
// params; otherwise the colon is literal.
func escapeNonPath(value string, params Params) string {
	var b strings.Builder
	b.Grow(len(value))

	i := 0
	for i < len(value) {
		c := value[i]
		if c == ':' {
			j := i + 1
			for j < len(value) && isWordByte(value[j]) {
				j++
			}
			name := value[i+1 : j]
			if _, ok := params[name]; ok && name != "" {
				b.WriteByte(':')
				b.WriteString(name)
				if j < len(value) && (value[j] == '*' || value[j] == '?' || value[j] == '+') {
					b.WriteByte(value[j])
					j++
				}
				i = j
				continue
			}
			b.WriteString(`\:`)
			i++
			continue
		}
		if strings.IndexByte(nonPathMetaChars, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
