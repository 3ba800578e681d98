package store

import (
	"context"
	"fmt"

	"taxcalc/internal/log"
	"taxcalc/internal/storage"
)

// Opened is a ready backend with its optional cleanup.
type Opened struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Close runs the cleanup, if any.
func (o *Opened) Close() error {
	if o.Cleanup == nil {
		return nil
	}
	return o.Cleanup()
}

// Open creates the backend cfg selects.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Opened, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case FileBackend:
		logger.InfoContext(ctx, "Initialized file backend", log.FieldPath, cfg.StateFile)
		return &Opened{Backend: NewFileStore(cfg.StateFile)}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldPath, cfg.SQLitePath)
		return &Opened{Backend: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		logger.InfoContext(ctx, "Initialized memory backend")
		return &Opened{Backend: NewMemoryStore()}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
