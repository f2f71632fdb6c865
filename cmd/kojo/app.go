package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kojo/internal/config"
	"github.com/vovakirdan/kojo/internal/core"
	"github.com/vovakirdan/kojo/internal/platform/tui"
	"github.com/vovakirdan/kojo/internal/platform/web"
	"github.com/vovakirdan/kojo/internal/scoring"
	"github.com/vovakirdan/kojo/internal/storage"
)

// runtimeConfig builds an activity config from the loaded config and flags.
func runtimeConfig(width, height int) core.RuntimeConfig {
	base := core.DefaultConfig()
	base.ScreenW = width
	base.ScreenH = height
	base.TickRate = flagFPS
	base.Seed = flagSeed
	return appConfig.Runtime(base)
}

// fileLogger logs to log.file so the terminal UI keeps the screen.
// Without a file, logs are discarded.
func fileLogger() (*log.Logger, io.Closer) {
	if appConfig.Log.File == "" {
		return appConfig.Log.NewLogger(io.Discard), nil
	}
	path, err := storage.ExpandHome(appConfig.Log.File)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return appConfig.Log.NewLogger(io.Discard), nil
	}
	return appConfig.Log.NewLogger(f), f
}

func stderrLogger() *log.Logger {
	return appConfig.Log.NewLogger(os.Stderr)
}

// openBackend opens the configured storage, falling back to memory so the
// game still works when the store is unreachable.
func openBackend(logger *log.Logger) *storage.Backend {
	backend, err := storage.OpenBackend(appConfig.Storage)
	if err != nil {
		logger.Warn("storage unavailable, scores will not be kept", "backend", appConfig.Storage.Backend, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: %v (scores will not be kept)\n", err)
		backend, _ = storage.OpenBackend(config.StorageConfig{Backend: config.BackendMemory})
	}
	return backend
}

// newScoreService creates one player's score service over the backend.
func newScoreService(backend *storage.Backend, player string, logger *log.Logger) *scoring.Service {
	lc := appConfig.Leaderboard
	if player == "" {
		player = lc.Player
	}
	return scoring.NewService(backend.KV,
		scoring.WithLogger(logger),
		scoring.WithPlayer(player),
		scoring.WithKey(lc.Key),
		scoring.WithCapacity(lc.Capacity),
		scoring.WithRetries(lc.Retries, lc.RetryDelay),
	)
}

// historyOf returns the backend's session history, if it keeps one.
func historyOf(backend *storage.Backend) tui.History {
	if backend.History == nil {
		return nil
	}
	return backend.History
}

func webHistory(backend *storage.Backend) web.History {
	if backend.History == nil {
		return nil
	}
	return backend.History
}
