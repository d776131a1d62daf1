package importer

import (
	"bytes"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// UnsortedStem names the per-kind file holding entries whose book is not in the bundle.
const UnsortedStem = "unsorted"

// Bundle is the common intermediate form produced by every Source. Its entries
// are catalog definitions, so they marshal directly into the content tree layout
// read by catalog.LoadDirectory.
type Bundle struct {
	Books             []*catalog.Book
	Skills            []*catalog.SkillDef
	Races             []*catalog.RaceDef
	Edges             []*catalog.EdgeDef
	Hindrances        []*catalog.HindranceDef
	Powers            []*catalog.PowerDef
	ArcaneBackgrounds []*catalog.ArcaneBackgroundDef
}

// Len returns the number of entries in the bundle, books excluded.
func (b *Bundle) Len() int {
	return len(b.Skills) + len(b.Races) + len(b.Edges) + len(b.Hindrances) +
		len(b.Powers) + len(b.ArcaneBackgrounds)
}

// Files renders the bundle as content files keyed by path relative to the content root.
// Books go to books/books.yaml; every other kind is split per book into
// <kind>/<book stem>.yaml.
//
// Postcondition: every returned file is one or more YAML documents separated by "---".
func (b *Bundle) Files() (map[string][]byte, error) {
	stems := make(map[int]string, len(b.Books))
	for _, bk := range b.Books {
		stems[bk.ID] = BookStem(bk)
	}

	out := make(map[string][]byte)
	if len(b.Books) > 0 {
		data, err := marshalDocs(b.Books)
		if err != nil {
			return nil, fmt.Errorf("serialising books: %w", err)
		}
		out[filepath.Join("books", "books.yaml")] = data
	}

	steps := []func() error{
		func() error { return addKind(out, "skills", b.Skills, stems) },
		func() error { return addKind(out, "races", b.Races, stems) },
		func() error { return addKind(out, "edges", b.Edges, stems) },
		func() error { return addKind(out, "hindrances", b.Hindrances, stems) },
		func() error { return addKind(out, "powers", b.Powers, stems) },
		func() error { return addKind(out, "arcane_backgrounds", b.ArcaneBackgrounds, stems) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func addKind[T catalog.Definition](out map[string][]byte, kind string, defs []T, stems map[int]string) error {
	groups := make(map[string][]T)
	for _, d := range defs {
		stem, ok := stems[d.Def().BookID]
		if !ok {
			stem = UnsortedStem
		}
		groups[stem] = append(groups[stem], d)
	}
	for stem, group := range groups {
		data, err := marshalDocs(group)
		if err != nil {
			return fmt.Errorf("serialising %s for %q: %w", kind, stem, err)
		}
		out[filepath.Join(kind, stem+".yaml")] = data
	}
	return nil
}

func marshalDocs[T any](docs []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Source loads content from a format-specific source directory and produces a
// Bundle ready to be written as a content tree.
//
// Precondition: sourceDir must exist and contain the expected layout for the format.
// Postcondition: returns a non-nil Bundle and any recoverable warnings, or a non-nil error.
type Source interface {
	Load(sourceDir string) (*Bundle, []string, error)
}
