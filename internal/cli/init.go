// Package cli provides the bootstrap shared by the taxcalc commands:
// .env loading, configuration, logging and opening the state store.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"taxcalc/internal/config"
	"taxcalc/internal/log"
	"taxcalc/internal/session"
	"taxcalc/internal/store"
)

// SetupLogger builds the application logger from the configured level and
// makes it the slog default. debug forces the debug level.
func SetupLogger(cfg *config.Config, debug bool, out io.Writer) (*log.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}

	lc := log.DefaultConfig()
	lc.Level = level
	if out != nil {
		lc.Output = out
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development. A missing file is
// not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment is everything a command needs: configuration, logger, the
// opened store and a session bound to it.
type Environment struct {
	Config  *config.Config
	Logger  *log.Logger
	Store   *store.Opened
	Session *session.Service
}

// Close releases the store.
func (e *Environment) Close() error {
	if e.Store == nil {
		return nil
	}
	return e.Store.Close()
}

// Bootstrap loads configuration, sets up logging and opens the state store.
func Bootstrap(ctx context.Context, envFile string, debug bool) (*Environment, error) {
	if envFile != "" {
		LoadEnvFile(envFile)
	} else {
		LoadEnvFile()
	}

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}

	logger, err := SetupLogger(cfg, debug, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger = logger.WithComponent(log.ComponentCLI)

	bc, err := store.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	opened, err := store.Open(ctx, bc, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open state store",
			log.NewFields().WithOperation(log.OpStartup).With(log.FieldBackend, bc.Type.String()).WithError(err).ToSlice()...)
		return nil, fmt.Errorf("open %s store: %w", bc.Type, err)
	}

	logger.DebugContext(ctx, "Environment ready", log.FieldBackend, bc.Type.String())
	return &Environment{
		Config:  cfg,
		Logger:  logger,
		Store:   opened,
		Session: session.NewService(opened.Backend, logger),
	}, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
