// Package leaderboard implements the shared top-N score table: merging a
// player's score into it and its JSON wire form.
package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultCapacity is the number of entries kept.
const DefaultCapacity = 10

var (
	// ErrEmptyName is returned when merging an entry without a player name.
	ErrEmptyName = errors.New("leaderboard: empty player name")
	// ErrNegativeScore is returned when merging a negative score.
	ErrNegativeScore = errors.New("leaderboard: negative score")
)

// Entry is one player's best score.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Leaderboard is ordered by score descending, holds at most the capacity
// and each name at most once.
type Leaderboard []Entry

// Merge returns a new leaderboard with (name, score) folded in. An existing
// entry for name keeps the larger of the two scores; otherwise the entry is
// appended. The result is sorted by score descending, ties keeping their
// previous relative order, and truncated to capacity. lb is not modified.
func Merge(lb Leaderboard, name string, score, capacity int) (Leaderboard, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if score < 0 {
		return nil, ErrNegativeScore
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	out := make(Leaderboard, len(lb), len(lb)+1)
	copy(out, lb)

	found := false
	for i := range out {
		if out[i].Name == name {
			out[i].Score = max(out[i].Score, score)
			found = true
			break
		}
	}
	if !found {
		out = append(out, Entry{Name: name, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > capacity {
		out = out[:capacity]
	}
	return out, nil
}

// Clone returns an independent copy.
func (lb Leaderboard) Clone() Leaderboard {
	if lb == nil {
		return Leaderboard{}
	}
	out := make(Leaderboard, len(lb))
	copy(out, lb)
	return out
}

// Rank returns the 1-based position of name, or 0 if absent.
func (lb Leaderboard) Rank(name string) int {
	for i, e := range lb {
		if e.Name == name {
			return i + 1
		}
	}
	return 0
}

// Best returns the score recorded for name.
func (lb Leaderboard) Best(name string) (int, bool) {
	for _, e := range lb {
		if e.Name == name {
			return e.Score, true
		}
	}
	return 0, false
}

// Encode returns the JSON array form [{"name":..,"score":..},...].
func Encode(lb Leaderboard) (string, error) {
	if lb == nil {
		lb = Leaderboard{}
	}
	data, err := json.Marshal(lb)
	if err != nil {
		return "", fmt.Errorf("leaderboard: encode: %w", err)
	}
	return string(data), nil
}

// Decode parses the JSON array form. An empty payload is an empty
// leaderboard. The result is normalised: entries with blank names or
// negative scores are dropped, duplicate names keep their best score, and
// the table is sorted and truncated to capacity.
func Decode(data string, capacity int) (Leaderboard, error) {
	if strings.TrimSpace(data) == "" {
		return Leaderboard{}, nil
	}

	var raw []Entry
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return Leaderboard{}, fmt.Errorf("leaderboard: decode: %w", err)
	}

	return Normalize(raw, capacity), nil
}

// Union merges every entry of b into a, keeping each name's best score,
// and truncates to capacity. Neither input is modified.
func Union(a, b Leaderboard, capacity int) Leaderboard {
	all := make([]Entry, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return Normalize(all, capacity)
}

// Normalize folds arbitrary entries into a valid leaderboard.
func Normalize(entries []Entry, capacity int) Leaderboard {
	lb := Leaderboard{}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" || e.Score < 0 {
			continue
		}
		// Validated above, Merge cannot fail.
		lb, _ = Merge(lb, name, e.Score, capacity)
	}
	return lb
}
