package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// State persistence
	StateBackend string
	StateFile    string
	SQLitePath   string

	// Where report exports are written
	ExportDir string

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		StateBackend: getEnv("TAXCALC_STATE_BACKEND", BackendFile),
		StateFile:    getEnv("TAXCALC_STATE_FILE", "./config.txt"),
		SQLitePath:   getEnv("TAXCALC_SQLITE_PATH", "./data/taxcalc.db"),

		ExportDir: getEnv("TAXCALC_EXPORT_DIR", "."),

		LogLevel: getEnv("TAXCALC_LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{BackendFile, BackendSQLite, BackendMemory}
	if !slices.Contains(validBackends, c.StateBackend) {
		errors = append(errors, fmt.Sprintf("invalid state backend '%s': must be one of %v", c.StateBackend, validBackends))
	}

	if c.StateBackend == BackendFile && c.StateFile == "" {
		errors = append(errors, "state file path cannot be empty when using file backend")
	}
	if c.StateBackend == BackendSQLite && c.SQLitePath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.ExportDir == "" {
		errors = append(errors, "export directory cannot be empty")
	} else if info, err := os.Stat(c.ExportDir); err == nil && !info.IsDir() {
		errors = append(errors, fmt.Sprintf("export directory '%s' is not a directory", c.ExportDir))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", s)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
