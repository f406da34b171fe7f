// Package persist holds the snapshot backends selected by storage.backend.
package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path. The directory is created on
// the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist.FileStore.Load: %w", err)
	}
	return data, nil
}

// Save replaces the file atomically: the data goes to a temp file in the same
// directory which is then renamed over the target.
func (f *FileStore) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist.FileStore.Save: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("persist.FileStore.Save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("persist.FileStore.Save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist.FileStore.Save: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("persist.FileStore.Save: %w", err)
	}
	return nil
}
