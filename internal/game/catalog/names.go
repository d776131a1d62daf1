package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeName folds case and collapses whitespace so names from user input,
// effect lines, and content files compare equal.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// NamesMatch reports whether two names are equal after normalization.
func NamesMatch(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// BookFilter restricts lookups to content from the listed book IDs.
// An empty filter allows every book.
type BookFilter []int

// Allows reports whether content from bookID passes the filter.
// Content with no book (ID 0) is always allowed.
func (f BookFilter) Allows(bookID int) bool {
	if len(f) == 0 || bookID == 0 {
		return true
	}
	for _, id := range f {
		if id == bookID {
			return true
		}
	}
	return false
}
