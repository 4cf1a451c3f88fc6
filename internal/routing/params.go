package routing

// SanitizeParamName strips a capture-group name down to ASCII letters so it
// is always legal as a parameter name in a path template. Any other
// character is dropped; an input with no letters yields the empty string.
func SanitizeParamName(name string) string {
	var out []byte
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			out = append(out, c)
		}
	}
	return string(out)
}
