// Package attrs inspects slog-style variadic attribute lists.
package attrs

// ExtractString pulls the string value stored under key in an alternating
// key/value list, as passed to slog. Missing keys and non-string values
// yield "".
func ExtractString(attrs []any, key string) string {
	for i := 0; i+1 < len(attrs); i += 2 {
		name, ok := attrs[i].(string)
		if !ok || name != key {
			continue
		}
		if value, ok := attrs[i+1].(string); ok {
			return value
		}
	}
	return ""
}
