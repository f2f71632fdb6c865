package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/vovakirdan/kojo/internal/config"
	"github.com/vovakirdan/kojo/internal/storage/filestore"
	"github.com/vovakirdan/kojo/internal/storage/memstore"
	"github.com/vovakirdan/kojo/internal/storage/redisstore"
)

// KV is the key/value pair the leaderboard is persisted through.
type KV interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
}

// Backend is the persistence selected by configuration.
type Backend struct {
	KV      KV
	History *Store // nil unless the sqlite backend is used
	Name    string

	closer io.Closer
}

// OpenBackend opens the configured storage backend.
func OpenBackend(cfg config.StorageConfig) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: store, History: store, Name: cfg.Backend, closer: store}, nil

	case config.BackendRedis:
		rcfg := redisstore.DefaultConfig()
		rcfg.Addr = cfg.Redis.Addr
		rcfg.Password = cfg.Redis.Password
		rcfg.DB = cfg.Redis.DB
		if cfg.Redis.Prefix != "" {
			rcfg.Prefix = cfg.Redis.Prefix
		}
		store, err := redisstore.New(rcfg)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: store, Name: cfg.Backend, closer: store}, nil

	case config.BackendFile:
		dir, err := ExpandHome(cfg.Path)
		if err != nil {
			return nil, err
		}
		store, err := filestore.New(dir)
		if err != nil {
			return nil, err
		}
		return &Backend{KV: store, Name: cfg.Backend}, nil

	case config.BackendMemory:
		return &Backend{KV: memstore.New(), Name: cfg.Backend}, nil
	}

	return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	if err := b.closer.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", b.Name, err)
	}
	return nil
}
