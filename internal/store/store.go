// Package store implements the flat-file persistence used by every
// collection: one pretty-printed JSON file per collection, loaded and saved
// whole. There is no indexing and no cross-process locking; concurrent
// processes writing the same file race last-write-wins.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the data directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Lock serializes a load-mutate-save cycle within this process. Load and
// Save are individually safe; callers rewriting a collection must hold the
// lock for the whole cycle or lost updates are possible.
func (s *Store) Lock()   { s.mu.Lock() }
func (s *Store) Unlock() { s.mu.Unlock() }

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load reads a collection into out. A missing file or invalid JSON leaves
// out untouched and returns nil: corrupt data degrades to an empty
// collection instead of failing the request. Only I/O errors other than
// absence are surfaced.
func (s *Store) Load(collection string, out any) error {
	data, err := os.ReadFile(s.path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read %s: %w", collection, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Treated the same as an absent file.
		return nil
	}
	return nil
}

// Save rewrites a collection atomically: marshal, write to a temp file in
// the same directory, rename over the target. A reader never observes a
// partial write.
func (s *Store) Save(collection string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp for %s: %w", collection, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close temp for %s: %w", collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replace %s: %w", collection, err)
	}
	return nil
}
