package textract

import (
	"regexp"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// Normalize collapses every run of whitespace (including newlines) to a single
// space and trims the result. Pattern matching assumes single-space separators,
// so this must run before any field resolution. Idempotent.
func Normalize(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
