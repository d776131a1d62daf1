package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/config"
	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/character"
	"github.com/Savaged-us/core-sub000/internal/game/requirement"
	"github.com/Savaged-us/core-sub000/internal/observability"
	"github.com/Savaged-us/core-sub000/internal/scripting"
)

// errInvalid marks a character whose validation reached Error severity.
var errInvalid = errors.New("character has errors")

// app holds what every subcommand shares once configuration is resolved.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	cat     *catalog.Catalog
	scripts *scripting.Manager
	opts    []character.Option
}

// newApp loads configuration from v, then the catalog and optional scripts it names.
// Diagnostics are logged to logOut.
//
// Precondition: v and logOut must be non-nil.
// Postcondition: Returns a ready app or a non-nil error; the caller must call close.
func newApp(v *viper.Viper, logOut io.Writer) (*app, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLoggerTo(cfg.Logging, logOut)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.LoadDirectory(cfg.Catalog.Dir, catalog.LoadOptions{RegisteredOnly: cfg.Catalog.RegisteredOnly})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("catalog loaded", zap.String("dir", cfg.Catalog.Dir), zap.Any("counts", cat.Counts()))

	reqs, err := requirement.NewEvaluator()
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("building requirement evaluator: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, cat: cat}
	a.opts = []character.Option{
		character.WithLogger(logger),
		character.WithRequirementEvaluator(reqs),
		character.WithStartingFunds(cfg.Engine.StartingFunds),
		character.WithCalcFlags(cfg.Engine.SaveAddedEdges, cfg.Engine.CalcLanguages),
	}

	if cfg.Scripting.Enabled() {
		a.scripts = scripting.NewManager(logger)
		if err := a.scripts.Load(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			a.close()
			return nil, err
		}
		a.opts = append(a.opts, character.WithScripts(a.scripts))
	}
	return a, nil
}

func (a *app) close() {
	if a.scripts != nil {
		a.scripts.Close()
	}
	_ = a.logger.Sync()
}

// load reads a character document from path ("-" for in) and calculates it.
func (a *app) load(path string, in io.Reader) (*character.Character, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading character %q: %w", path, err)
	}

	c := character.New(a.cat, a.opts...)
	if err := c.ImportObj(data, nil, false); err != nil {
		return nil, fmt.Errorf("importing character %q: %w", path, err)
	}
	return c, nil
}
