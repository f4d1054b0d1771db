// Package slug derives URL-safe identifiers from post titles and
// category names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonWord matches anything that is not a word character, whitespace,
	// or hyphen.
	nonWord = regexp.MustCompile(`[^\w\s-]`)
	// separatorRuns collapses runs of whitespace, underscores, and hyphens.
	separatorRuns = regexp.MustCompile(`[\s_-]+`)
)

// Make creates a lowercase, hyphen-separated slug from s.
// Example: "Hello, World! 2026" -> "hello-world-2026"
//
// Make is a pure function: the same input always yields the same slug,
// and slugs are fixed points (Make(Make(s)) == Make(s)).
func Make(s string) string {
	result := strings.ToLower(s)
	result = nonWord.ReplaceAllString(result, "")
	result = separatorRuns.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
