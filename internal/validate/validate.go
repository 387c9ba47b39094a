// Package validate contains pure field validators for user-supplied input.
// Each predicate reports whether the value is acceptable; none has side
// effects.
package validate

import "regexp"

const maxEmailLength = 255

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	keywordRe = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)
)

// Email reports whether v has a local@domain-with-dot shape and is at most
// 255 characters long.
func Email(v string) bool {
	return len(v) <= maxEmailLength && emailRe.MatchString(v)
}

// Password reports whether the length of v is in [8,128].
func Password(v string) bool {
	return len(v) >= 8 && len(v) <= 128
}

// Keyword reports whether v is 2–50 characters of letters, digits,
// whitespace and hyphens.
func Keyword(v string) bool {
	return len(v) >= 2 && len(v) <= 50 && keywordRe.MatchString(v)
}

// ReportName reports whether the length of v is in [1,100].
func ReportName(v string) bool {
	return len(v) >= 1 && len(v) <= 100
}
