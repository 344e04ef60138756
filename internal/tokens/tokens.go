// Package tokens implements the `{{name}}` placeholder substitution used for
// output path templating, filter value resolution, and iterator slug
// rewriting. All call sites share this one implementation so escaping and
// collision behavior stay consistent.
package tokens

import "strings"

// Token renders the placeholder form of a name, e.g. Token("slug") == "{{slug}}".
func Token(name string) string {
	return "{{" + name + "}}"
}

// Has reports whether s contains the named placeholder.
func Has(s, name string) bool {
	return strings.Contains(s, Token(name))
}

// Replace substitutes a single named placeholder with val.
func Replace(s, name, val string) string {
	return strings.ReplaceAll(s, Token(name), val)
}

// ReplaceAll substitutes every placeholder that has an entry in fields.
// Placeholders without an entry are left untouched.
func ReplaceAll(s string, fields map[string]string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	for name, val := range fields {
		s = strings.ReplaceAll(s, Token(name), val)
	}
	return s
}

// Exact reports whether s consists of exactly one placeholder and returns its
// name. Used by the filter engine to decide between typed replacement and
// plain string substitution.
func Exact(s string) (string, bool) {
	if len(s) < 5 || !strings.HasPrefix(s, "{{") || !strings.HasSuffix(s, "}}") {
		return "", false
	}
	inner := s[2 : len(s)-2]
	if strings.Contains(inner, "{{") || strings.Contains(inner, "}}") {
		return "", false
	}
	return inner, true
}
