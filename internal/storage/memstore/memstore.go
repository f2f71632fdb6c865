// Package memstore is an in-process key/value store for standalone play
// and tests. Nothing survives the process.
package memstore

import (
	"context"
	"sync"
)

// Store is a concurrent in-memory key/value store.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	writes int
}

// New returns an empty store.
func New() *Store { return &Store{data: map[string]string{}} }

// Read returns the value stored under key.
func (s *Store) Read(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Write replaces the value stored under key.
func (s *Store) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.writes++
	return nil
}

// Update replaces the value under key with fn's result, computed from the
// current value while the store is locked.
func (s *Store) Update(_ context.Context, key string, fn func(current string, ok bool) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[key]
	value, err := fn(current, ok)
	if err != nil {
		return err
	}
	s.data[key] = value
	s.writes++
	return nil
}

// Writes returns how many writes the store has accepted.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
