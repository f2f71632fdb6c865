// Package config provides YAML-based configuration loading for kojo:
// board settings, leaderboard policy, storage backend, logging and servers.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vovakirdan/kojo/internal/core"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// PaletteNames are the tile colors a board palette may use.
var PaletteNames = []string{"red", "blue", "green", "yellow", "purple"}

// Config is the complete kojo configuration.
type Config struct {
	Board       BoardConfig       `yaml:"board"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
	Server      ServerConfig      `yaml:"server"`
}

// BoardConfig defines the tile-matching board.
type BoardConfig struct {
	Size          int      `yaml:"size" env:"BOARD_SIZE"`
	Palette       []string `yaml:"palette" env:"BOARD_PALETTE"`
	PointsPerTile int      `yaml:"points_per_tile"`
	Cascade       bool     `yaml:"cascade" env:"BOARD_CASCADE"` // clear follow-up runs after each pop
}

// LeaderboardConfig defines the shared leaderboard and how it is persisted.
type LeaderboardConfig struct {
	Key        string        `yaml:"key"`
	Capacity   int           `yaml:"capacity"`
	Player     string        `yaml:"player" env:"PLAYER"`
	Retries    int           `yaml:"retries"`     // extra attempts for a failed write
	RetryDelay time.Duration `yaml:"retry_delay"` // pause between attempts
}

// StorageConfig selects where the leaderboard lives.
type StorageConfig struct {
	Backend string      `yaml:"backend" env:"STORAGE_BACKEND"`
	Path    string      `yaml:"path" env:"STORAGE_PATH"` // sqlite file or directory for the file backend
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig defines the Redis connection for the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	Prefix   string `yaml:"prefix"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"` // debug, info, warn, error
	File  string `yaml:"file" env:"LOG_FILE"`   // used while a terminal UI owns the screen
}

// ServerConfig defines `kojo serve`.
type ServerConfig struct {
	SSH         string        `yaml:"ssh" env:"SSH_ADDR"`
	HTTP        string        `yaml:"http" env:"HTTP_ADDR"` // empty disables the HTTP bridge
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Board.Size < 3 {
		return fmt.Errorf("config: board.size must be at least 3, got %d", c.Board.Size)
	}
	if err := validatePalette(c.Board.Palette); err != nil {
		return err
	}
	if c.Board.PointsPerTile <= 0 {
		return fmt.Errorf("config: board.points_per_tile must be positive, got %d", c.Board.PointsPerTile)
	}

	if strings.TrimSpace(c.Leaderboard.Key) == "" {
		return fmt.Errorf("config: leaderboard.key must not be empty")
	}
	if c.Leaderboard.Capacity <= 0 {
		return fmt.Errorf("config: leaderboard.capacity must be positive, got %d", c.Leaderboard.Capacity)
	}
	if c.Leaderboard.Retries < 0 {
		return fmt.Errorf("config: leaderboard.retries must not be negative")
	}
	if c.Leaderboard.RetryDelay < 0 {
		return fmt.Errorf("config: leaderboard.retry_delay must not be negative")
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("config: storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("config: storage.redis.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func validatePalette(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("config: board.palette must not be empty")
	}
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if !slices.Contains(PaletteNames, name) {
			return fmt.Errorf("config: board.palette: unknown color %q (want one of %s)", raw, strings.Join(PaletteNames, ", "))
		}
		if seen[name] {
			return fmt.Errorf("config: board.palette: duplicate color %q", raw)
		}
		seen[name] = true
	}
	return nil
}

// Runtime copies the board settings into an activity's runtime config.
func (c Config) Runtime(base core.RuntimeConfig) core.RuntimeConfig {
	base.BoardSize = c.Board.Size
	base.Palette = append([]string(nil), c.Board.Palette...)
	base.PointsPerTile = c.Board.PointsPerTile
	base.Cascade = c.Board.Cascade
	return base
}
