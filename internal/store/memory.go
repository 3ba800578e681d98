package store

import (
	"context"
	"fmt"
	"sync"

	"taxcalc/internal/core"
	"taxcalc/internal/statefile"
	"taxcalc/internal/storage"
)

// MemoryStore keeps the encoded state in memory. It goes through the same
// codec as the file store so anything it accepts survives a real save.
type MemoryStore struct {
	mu    sync.Mutex
	text  string
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (statefile.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saves == 0 {
		return statefile.Snapshot{}, fmt.Errorf("%w: nothing saved in memory", core.ErrFileNotFound)
	}
	return statefile.Decode(m.text)
}

func (m *MemoryStore) Save(_ context.Context, s statefile.Snapshot) error {
	text, err := statefile.Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.saves++
	return nil
}

// Summary reports the stored state; Version counts successful saves.
func (m *MemoryStore) Summary(_ context.Context) (storage.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saves == 0 {
		return storage.Summary{}, fmt.Errorf("%w: nothing saved in memory", core.ErrFileNotFound)
	}
	s, err := statefile.Decode(m.text)
	if err != nil {
		return storage.Summary{}, err
	}
	return summarize(s, int64(m.saves)), nil
}
