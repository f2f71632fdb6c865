// Package scoring owns a session's running total and its view of the
// shared leaderboard. Activities report point deltas through a Sink; the
// Service folds them into the total, merges the total into the leaderboard
// and mirrors the leaderboard to a Store in the background.
package scoring

import (
	"context"
	"errors"
)

// ErrNegativeDelta is returned when a score delta is below zero.
var ErrNegativeDelta = errors.New("scoring: negative delta")

// Source names the activity that produced a score event.
type Source string

const (
	SourceCandy  Source = "candy"
	SourceColor  Source = "color"
	SourceNumber Source = "number"
	SourceWord   Source = "word"
	SourceShare  Source = "share"
)

// Event is a single score delta reported by an activity.
type Event struct {
	Source Source
	Points int
}

// Sink accepts score events.
type Sink interface {
	Submit(ev Event) error
}

// Store is the key/value persistence the leaderboard is mirrored to.
// Read reports ok=false when the key has never been written.
type Store interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
}

// Updater is a Store that can replace a value based on the current one
// without another writer slipping in between.
type Updater interface {
	Update(ctx context.Context, key string, fn func(current string, ok bool) (string, error)) error
}

// Apply adds delta to total. There is no upper bound.
func Apply(total, delta int) (int, error) {
	if delta < 0 {
		return total, ErrNegativeDelta
	}
	return total + delta, nil
}
