package store

import (
	"fmt"

	"taxcalc/internal/config"
)

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = config.BackendFile
	SQLiteBackend BackendType = config.BackendSQLite
	MemoryBackend BackendType = config.BackendMemory
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// BackendTypes returns all valid backend types
func BackendTypes() []BackendType {
	return []BackendType{FileBackend, SQLiteBackend, MemoryBackend}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File backend
	StateFile string

	// SQLite backend
	SQLitePath string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	bt := BackendType(appConfig.StateBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.StateBackend)
	}

	return Config{
		Type:       bt,
		StateFile:  appConfig.StateFile,
		SQLitePath: appConfig.SQLitePath,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case FileBackend:
		if c.StateFile == "" {
			return fmt.Errorf("state file path is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
	}

	return nil
}
