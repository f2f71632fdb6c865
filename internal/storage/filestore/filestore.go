// Package filestore keeps each key in its own file under a directory.
// Writes go to a temporary file that is renamed into place, so a reader
// never sees a partial value.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists values as files named <key>.json.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("filestore: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Read returns the file contents for key. A missing file is ok=false.
func (s *Store) Read(_ context.Context, key string) (string, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(key, p)
}

// Write atomically replaces the file for key.
func (s *Store) Write(ctx context.Context, key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key, p, value)
}

// Update replaces the value for key with fn's result, computed from the
// current value. Updates through the same Store do not interleave.
func (s *Store) Update(ctx context.Context, key string, fn func(current string, ok bool) (string, error)) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok, err := s.read(key, p)
	if err != nil {
		return err
	}
	value, err := fn(current, ok)
	if err != nil {
		return err
	}
	return s.write(key, p, value)
}

func (s *Store) read(key, p string) (string, bool, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("filestore: read %s: %w", key, err)
	}
	return string(b), true, nil
}

func (s *Store) write(key, p, value string) error {
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	return nil
}
