package storage

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/vovakirdan/kojo/internal/config"
)

func TestOpenBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := []struct {
		name        string
		cfg         config.StorageConfig
		wantHistory bool
	}{
		{"sqlite", config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "kojo.db")}, true},
		{"file", config.StorageConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "files")}, false},
		{"memory", config.StorageConfig{Backend: config.BackendMemory}, false},
		{"redis", config.StorageConfig{Backend: config.BackendRedis, Redis: config.RedisConfig{Addr: mr.Addr()}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OpenBackend(tt.cfg)
			if err != nil {
				t.Fatalf("OpenBackend() failed: %v", err)
			}
			defer b.Close()

			if (b.History != nil) != tt.wantHistory {
				t.Errorf("History = %v, want present %v", b.History, tt.wantHistory)
			}

			ctx := context.Background()
			if err := b.KV.Write(ctx, "leaderboard", "[]"); err != nil {
				t.Fatalf("Write() failed: %v", err)
			}
			v, ok, err := b.KV.Read(ctx, "leaderboard")
			if err != nil || !ok || v != "[]" {
				t.Errorf("Read() = %q, %v, %v", v, ok, err)
			}

			// Sessions sharing a backend merge their leaderboards through Update.
			u, ok := b.KV.(interface {
				Update(context.Context, string, func(string, bool) (string, error)) error
			})
			if !ok {
				t.Fatalf("%s backend does not support Update", tt.name)
			}
			err = u.Update(ctx, "leaderboard", func(cur string, _ bool) (string, error) {
				return cur + "!", nil
			})
			if v, _, _ := b.KV.Read(ctx, "leaderboard"); err != nil || v != "[]!" {
				t.Errorf("Update() = %q, %v", v, err)
			}
		})
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	if _, err := OpenBackend(config.StorageConfig{Backend: "etcd"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
