package savaged

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Savaged-us/core-sub000/internal/importer"
)

var _ importer.Source = (*Source)(nil)

// Source implements importer.Source for a directory of JSON export files:
//
//	sourceDir/
//	  books.json
//	  skills.json
//	  races.json
//	  edges.json
//	  hindrances.json
//	  powers.json
//	  arcane_backgrounds.json
//
// Every file is optional, but at least one must be present.
type Source struct{}

// NewSource constructs a Source.
func NewSource() *Source { return &Source{} }

// Load reads the export files under sourceDir and converts them into a Bundle.
// Unrecognised *.json files are reported as warnings.
//
// Precondition: sourceDir must be a readable directory.
// Postcondition: returns a non-nil Bundle and any conversion warnings, or a non-nil error.
func (s *Source) Load(sourceDir string) (*importer.Bundle, []string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading source directory %s: %w", sourceDir, err)
	}

	var exp Export
	parsers := map[string]func([]byte) error{
		"books.json":              parseInto(&exp.Books),
		"skills.json":             parseInto(&exp.Skills),
		"races.json":              parseInto(&exp.Races),
		"edges.json":              parseInto(&exp.Edges),
		"hindrances.json":         parseInto(&exp.Hindrances),
		"powers.json":             parseInto(&exp.Powers),
		"arcane_backgrounds.json": parseInto(&exp.ArcaneBackgrounds),
	}

	var warnings []string
	found := 0
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		parse, ok := parsers[name]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unrecognised export file %q; skipping", name))
			continue
		}
		path := filepath.Join(sourceDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading export file %s: %w", path, err)
		}
		if err := parse(data); err != nil {
			return nil, nil, fmt.Errorf("export file %s: %w", path, err)
		}
		found++
	}
	if found == 0 {
		return nil, nil, errors.New("no export files found in " + sourceDir)
	}

	bundle, convWarnings := Convert(&exp)
	return bundle, append(warnings, convWarnings...), nil
}

func parseInto[T any](dst *[]T) func([]byte) error {
	return func(data []byte) error {
		list, err := ParseList[T](data)
		if err != nil {
			return err
		}
		*dst = list
		return nil
	}
}
