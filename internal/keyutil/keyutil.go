// Package keyutil holds pattern helpers shared by the in-process store
// backends. Patterns here are deliberately limited to the single shape the
// cache emits: a literal prefix followed by a trailing "*".
package keyutil

import "strings"

// PrefixOf returns the literal prefix of a trailing-wildcard pattern and
// true, or ("", false) when the pattern has no trailing "*".
func PrefixOf(pattern string) (string, bool) {
	if strings.HasSuffix(pattern, "*") {
		return pattern[:len(pattern)-1], true
	}
	return "", false
}

// Match reports whether key matches pattern. A pattern without a trailing
// wildcard matches only itself.
func Match(pattern, key string) bool {
	if p, ok := PrefixOf(pattern); ok {
		return strings.HasPrefix(key, p)
	}
	return pattern == key
}
