// Package store persists calculator state. Backends load and save a whole
// statefile.Snapshot; there is no partial update.
package store

import (
	"context"

	"taxcalc/internal/statefile"
	"taxcalc/internal/storage"
)

// Ports for persistence adapters.
type (
	// StateReader returns the saved state, or core.ErrFileNotFound when
	// nothing was saved yet.
	StateReader interface {
		Load(ctx context.Context) (statefile.Snapshot, error)
	}

	// StateWriter replaces the saved state.
	StateWriter interface {
		Save(ctx context.Context, s statefile.Snapshot) error
	}

	Backend interface {
		StateReader
		StateWriter
	}

	// Summarizer reports the headline figures of the saved state without
	// restoring it. Every backend in this package implements it.
	Summarizer interface {
		Summary(ctx context.Context) (storage.Summary, error)
	}
)
