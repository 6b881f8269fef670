package list

import (
	"regexp"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize prepares a string for case-insensitive comparison:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// IsTasksList reports whether a list name matches one of the configured
// localized "tasks" names. Tasks lists suppress quantity/value semantics
// and duplicate merging.
func IsTasksList(name string, aliases []string) bool {
	norm := Normalize(name)
	for _, alias := range aliases {
		if norm == Normalize(alias) {
			return true
		}
	}
	return false
}
