package util

import "strings"

// DefaultString returns the fallback value if v is empty or consists entirely
// of whitespace; otherwise it returns v unchanged.
//
// Examples:
//
//	DefaultString("hello", "world")  → "hello"
//	DefaultString("",      "world")  → "world"
//	DefaultString("  ",    "world")  → "world"
func DefaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// EmptyDash returns "-" if s is empty or consists entirely of whitespace;
// otherwise it returns s unchanged.
//
// Used by the list command so that a blank column in table output is visible.
func EmptyDash(s string) string {
	return DefaultString(s, "-")
}

// HasEnvironmentExt reports whether name ends in EnvironmentExt.
func HasEnvironmentExt(name string) bool {
	return strings.HasSuffix(name, EnvironmentExt)
}

// TrimEnvironmentExt returns name without a trailing EnvironmentExt.
func TrimEnvironmentExt(name string) string {
	return strings.TrimSuffix(name, EnvironmentExt)
}
