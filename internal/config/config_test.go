package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Dir: "content",
		},
		Engine: EngineConfig{
			CalcLanguages: true,
			StartingFunds: 500,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
catalog:
  dir: /srv/content
  registered_only: true
scripting:
  dir: /srv/scripts
  instruction_limit: 5000
engine:
  calc_languages: false
  save_added_edges: true
  starting_funds: 1000
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/content", cfg.Catalog.Dir)
	assert.True(t, cfg.Catalog.RegisteredOnly)
	assert.True(t, cfg.Scripting.Enabled())
	assert.Equal(t, 5000, cfg.Scripting.InstructionLimit)
	assert.False(t, cfg.Engine.CalcLanguages)
	assert.True(t, cfg.Engine.SaveAddedEdges)
	assert.Equal(t, 1000, cfg.Engine.StartingFunds)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "content", cfg.Catalog.Dir)
	assert.False(t, cfg.Scripting.Enabled())
	assert.True(t, cfg.Engine.CalcLanguages)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SWCALC_CATALOG_DIR", "/env/content")
	t.Setenv("SWCALC_ENGINE_STARTING_FUNDS", "250")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/content", cfg.Catalog.Dir)
	assert.Equal(t, 250, cfg.Engine.StartingFunds)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: loud
engine:
  starting_funds: -5
`), 0644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "engine.starting_funds")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateCatalogDirEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Dir = "  "
	assert.Error(t, cfg.Validate())
}

func TestValidateScriptingLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.InstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyNonNegativeFundsAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		funds := rapid.IntRange(0, 1_000_000).Draw(t, "funds")
		cfg := validConfig()
		cfg.Engine.StartingFunds = funds
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid funds %d rejected: %v", funds, err)
		}
	})
}

func TestPropertyNegativeLimitsRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Engine.StartingFunds = rapid.IntRange(-1000, -1).Draw(t, "funds")
		cfg.Scripting.InstructionLimit = rapid.IntRange(-1000, -1).Draw(t, "limit")
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("negative values accepted: %+v", cfg)
		}
	})
}
