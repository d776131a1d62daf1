package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// Importer orchestrates content import from a Source to an output directory.
type Importer struct {
	source Source
	logger *zap.Logger
}

// New constructs an Importer backed by the given Source.
//
// Precondition: source and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, logger *zap.Logger) *Importer {
	if logger == nil {
		panic("importer.New: logger must not be nil")
	}
	return &Importer{source: source, logger: logger}
}

// Run loads a bundle from sourceDir and writes it to outputDir as a content tree.
// The tree is first staged in a temporary directory and loaded with
// catalog.LoadDirectory; outputDir is only touched when the staged tree loads.
//
// Precondition: sourceDir must satisfy the source's layout requirements;
// outputDir must exist or be creatable.
// Postcondition: on success every file of the bundle exists under outputDir,
// replacing files of the same name. On error outputDir is unchanged.
func (imp *Importer) Run(sourceDir, outputDir string) error {
	overall := time.Now()

	t0 := time.Now()
	bundle, warnings, err := imp.source.Load(sourceDir)
	if err != nil {
		return fmt.Errorf("loading source: %w", err)
	}
	for _, w := range warnings {
		imp.logger.Warn("import warning", zap.String("detail", w))
	}
	imp.logger.Info("loaded export",
		zap.Int("books", len(bundle.Books)),
		zap.Int("entries", bundle.Len()),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", time.Since(t0).Round(time.Millisecond)),
	)

	files, err := bundle.Files()
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	staging, err := os.MkdirTemp("", "swcalc-import-*")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := writeTree(staging, paths, files); err != nil {
		return err
	}
	cat, err := catalog.LoadDirectory(staging, catalog.LoadOptions{})
	if err != nil {
		return fmt.Errorf("imported content failed validation: %w", err)
	}

	if err := writeTree(outputDir, paths, files); err != nil {
		return err
	}
	for _, p := range paths {
		imp.logger.Debug("wrote content file", zap.String("path", filepath.Join(outputDir, p)))
	}

	counts := cat.Counts()
	fields := []zap.Field{zap.Duration("elapsed", time.Since(overall).Round(time.Millisecond))}
	for _, kind := range sortedKinds(counts) {
		fields = append(fields, zap.Int(kind, counts[kind]))
	}
	imp.logger.Info("import complete", fields...)
	return nil
}

func writeTree(root string, paths []string, files map[string][]byte) error {
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, files[p], 0644); err != nil {
			return fmt.Errorf("writing %s: %w", full, err)
		}
	}
	return nil
}

// sortedKinds returns the kinds with a non-zero count, in name order.
func sortedKinds(counts map[string]int) []string {
	var kinds []string
	for k, n := range counts {
		if n > 0 {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)
	return kinds
}
