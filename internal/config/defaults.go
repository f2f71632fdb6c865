package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/kojo.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches defaults/kojo.yaml.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Size:          8,
			Palette:       []string{"red", "blue", "green", "yellow", "purple"},
			PointsPerTile: 10,
		},
		Leaderboard: LeaderboardConfig{
			Key:        "leaderboard",
			Capacity:   10,
			Player:     "Anonymous",
			Retries:    2,
			RetryDelay: 200 * time.Millisecond,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "~/.kojo/kojo.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "kojo:",
			},
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.kojo/kojo.log",
		},
		Server: ServerConfig{
			SSH:         ":2222",
			HostKey:     ".ssh/kojo_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
