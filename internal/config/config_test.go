package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	valid := Config{
		StateBackend: BackendFile,
		StateFile:    "./config.txt",
		SQLitePath:   "./data/taxcalc.db",
		ExportDir:    t.TempDir(),
		LogLevel:     "info",
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{name: "valid file backend", mutate: func(c *Config) {}},
		{name: "valid sqlite backend", mutate: func(c *Config) { c.StateBackend = BackendSQLite }},
		{name: "valid memory backend", mutate: func(c *Config) {
			c.StateBackend = BackendMemory
			c.StateFile = ""
		}},
		{name: "missing export dir is created later", mutate: func(c *Config) { c.ExportDir = filepath.Join(c.ExportDir, "new") }},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.StateBackend = "sheets" },
			errorString: "invalid state backend 'sheets': must be one of [file sqlite memory]",
		},
		{
			name:        "file backend without path",
			mutate:      func(c *Config) { c.StateFile = "" },
			errorString: "state file path cannot be empty when using file backend",
		},
		{
			name: "sqlite backend without path",
			mutate: func(c *Config) {
				c.StateBackend = BackendSQLite
				c.SQLitePath = ""
			},
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "export dir is a file",
			mutate:      func(c *Config) { c.ExportDir = notADir },
			errorString: "is not a directory",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuration validation failed")
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{StateBackend: "nope", LogLevel: "loud"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid state backend")
	assert.Contains(t, err.Error(), "export directory cannot be empty")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"TAXCALC_STATE_BACKEND", "TAXCALC_STATE_FILE", "TAXCALC_SQLITE_PATH",
		"TAXCALC_EXPORT_DIR", "TAXCALC_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, BackendFile, cfg.StateBackend)
	assert.Equal(t, "./config.txt", cfg.StateFile)
	assert.Equal(t, "./data/taxcalc.db", cfg.SQLitePath)
	assert.Equal(t, ".", cfg.ExportDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TAXCALC_STATE_BACKEND", "sqlite")
	t.Setenv("TAXCALC_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("TAXCALC_EXPORT_DIR", "/tmp/out")
	t.Setenv("TAXCALC_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, BackendSQLite, cfg.StateBackend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
