// Command import-content converts book data exports into a catalog content tree.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/config"
	"github.com/Savaged-us/core-sub000/internal/importer"
	"github.com/Savaged-us/core-sub000/internal/importer/savaged"
	"github.com/Savaged-us/core-sub000/internal/observability"
)

func main() {
	format := flag.String("format", "savaged", "source format: savaged")
	sourceDir := flag.String("source", "", "path to the export directory")
	outputDir := flag.String("output", "", "path to the content directory to write")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if *sourceDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "usage: import-content [-format savaged] -source <dir> -output <dir> [-log-level <level>]")
		os.Exit(1)
	}

	var src importer.Source
	switch *format {
	case "savaged":
		src = savaged.NewSource()
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: savaged)\n", *format)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := importer.New(src, logger).Run(*sourceDir, *outputDir); err != nil {
		logger.Error("import failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
