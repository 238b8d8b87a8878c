// Package utils provides small helpers shared across the changekeeper codebase.
package utils

import "strings"

// Ptr returns a pointer to the provided value v.
// This is useful for creating pointers to literals or temporary values.
func Ptr[T any](v T) *T {
	return &v
}

// StripEnclosingQuotes removes a single pair of surrounding double quotes
// from s, if present. Quotes anywhere else in the string are left alone.
//
// Examples:
//   - `"Jane Doe"` -> `Jane Doe`
//   - `plain` -> `plain`
//   - `"unbalanced` -> `"unbalanced`
func StripEnclosingQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// IsWhitespace reports whether s is empty or consists only of whitespace.
func IsWhitespace(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseBool interprets s as a boolean attribute value. Only the literal
// "true" (in any case) is true; everything else, including the empty
// string, is false.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
