package importer

// slug.go derives the URL-safe identifier that doubles as the
// conflict-detection key against existing items.

import (
	"strings"
	"unicode"
)

// Slugify normalizes a value into a slug: lowercase, with every run of
// characters other than Unicode letters, digits, and parentheses
// collapsed into a single dash, and leading/trailing dashes trimmed.
// Slugify is idempotent.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))

	var b strings.Builder
	b.Grow(len(value))
	pendingDash := false
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '(' || r == ')' {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}
	return b.String()
}
