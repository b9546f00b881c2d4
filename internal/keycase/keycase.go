// Package keycase converts object keys between the snake_case used by the API
// and the camelCase used by clients.
package keycase

import (
	"strings"
	"unicode"
)

// CamelKey converts one key: every underscore followed by a lowercase ASCII
// letter becomes the uppercase letter. Other underscores are kept.
func CamelKey(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '_' && i+1 < len(key) && key[i+1] >= 'a' && key[i+1] <= 'z' {
			b.WriteByte(key[i+1] - ('a' - 'A'))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// SnakeKey converts one key: every uppercase letter becomes an underscore
// followed by its lowercase form.
func SnakeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel returns a copy of v with every object key converted by CamelKey,
// at every depth. Values that are not maps or slices are returned unchanged.
func ToCamel(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[CamelKey(k)] = ToCamel(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = ToCamel(val)
		}
		return out
	default:
		return v
	}
}

// ToSnake converts the top level keys of m. Nested values are kept as they are.
func ToSnake(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[SnakeKey(k)] = v
	}
	return out
}
