// Package registry keeps the factories of the arcade's activities.
// Activities register themselves in init(), so the platform can list and
// start them without importing each one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/kojo/internal/core"
)

// Game is implemented by every playable activity.
// Activities hold pure logic; input mapping, timing, rendering to the
// terminal and score bookkeeping belong to the platform.
type Game interface {
	// ID is the stable identifier, also used as the score source tag.
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts or restarts the activity.
	Reset(cfg core.RuntimeConfig)

	// Step advances by one tick. Points earned during the tick are
	// reported in the result and forwarded by the platform to the score sink.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the current activity state.
	State() core.GameState
}

// GameInfo describes a registered activity.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh activity instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds an activity factory.
// Panics if the ID is already taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered activities sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates an activity by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether an activity with the ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Resizer is implemented by activities that can follow a terminal resize
// without restarting.
type Resizer interface {
	Resize(w, h int)
}
