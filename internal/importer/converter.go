package importer

import (
	"fmt"
	"strings"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// NameToID converts a display name to a stable snake_case identifier.
//
// Postcondition: result is lowercase, contains only [a-z0-9_], and is
// idempotent (NameToID(NameToID(s)) == NameToID(s)).
func NameToID(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BookStem returns the file stem used for a book's content files: its short name,
// else its name, as a NameToID identifier, else "book_<id>".
func BookStem(b *catalog.Book) string {
	if stem := NameToID(b.Short); stem != "" {
		return stem
	}
	if stem := NameToID(b.Name); stem != "" {
		return stem
	}
	return fmt.Sprintf("book_%d", b.ID)
}
