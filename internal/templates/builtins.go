package templates

import (
	"strings"
	"text/template"
)

// builtins are the helper functions available inside page templates.
func builtins() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"trim":  strings.TrimSpace,
		"join":  joinAny,
		"safe":  func(s string) string { return s },
	}
}

// joinAny joins a decoded context array; non-string elements are skipped.
func joinAny(sep string, items []any) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}
