package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"taxcalc/internal/core"
	"taxcalc/internal/statefile"
	"taxcalc/internal/storage"
)

// FileStore keeps the state in a single config file, overwritten on every
// save.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load(_ context.Context) (statefile.Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return statefile.Snapshot{}, fmt.Errorf("%w: %s", core.ErrFileNotFound, f.Path)
	}
	if err != nil {
		return statefile.Snapshot{}, fmt.Errorf("read %s: %w", f.Path, err)
	}

	s, err := statefile.Decode(string(data))
	if err != nil {
		return statefile.Snapshot{}, fmt.Errorf("%s: %w", f.Path, err)
	}
	return s, nil
}

func (f *FileStore) Save(_ context.Context, s statefile.Snapshot) error {
	text, err := statefile.Encode(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

// Summary decodes the file and reports its headline figures. Files carry no
// save counter, so Version is always 0.
func (f *FileStore) Summary(ctx context.Context) (storage.Summary, error) {
	s, err := f.Load(ctx)
	if err != nil {
		return storage.Summary{}, err
	}
	return summarize(s, 0), nil
}
