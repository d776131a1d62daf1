// Package config provides Viper-based configuration loading for the character calculator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SWCALC_CATALOG_DIR.
const EnvPrefix = "SWCALC"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// CatalogConfig locates the YAML content tree.
type CatalogConfig struct {
	// Dir is the content root with one subdirectory per kind.
	Dir string `mapstructure:"dir"`
	// RegisteredOnly drops content from books not flagged registered.
	RegisteredOnly bool `mapstructure:"registered_only"`
}

// ScriptingConfig enables Lua handlers for effect directives.
type ScriptingConfig struct {
	// Dir holds *.lua files; empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit bounds each script run; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Enabled reports whether a script directory is configured.
func (s ScriptingConfig) Enabled() bool {
	return s.Dir != ""
}

// EngineConfig holds the calculation flags shared by every character.
type EngineConfig struct {
	CalcLanguages  bool `mapstructure:"calc_languages"`
	SaveAddedEdges bool `mapstructure:"save_added_edges"`
	// StartingFunds applies when the character's setting does not set funds.
	StartingFunds int `mapstructure:"starting_funds"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Engine    EngineConfig    `mapstructure:"engine"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCatalog(c.Catalog); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCatalog(c CatalogConfig) error {
	if strings.TrimSpace(c.Dir) == "" {
		return errors.New("catalog.dir must not be empty")
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	if e.StartingFunds < 0 {
		return fmt.Errorf("engine.starting_funds must be >= 0, got %d", e.StartingFunds)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file so defaults
// and environment overrides alone configure the program.
//
// Precondition: path must be empty or a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and SWCALC_ environment
// overrides applied, ready for flag bindings.
//
// Postcondition: Returns a non-nil Viper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("catalog.dir", "content")
	v.SetDefault("catalog.registered_only", false)

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("engine.calc_languages", true)
	v.SetDefault("engine.save_added_edges", false)
	v.SetDefault("engine.starting_funds", 0)
}
