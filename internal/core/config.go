package core

// RuntimeConfig is handed to an activity when it is (re)started.
// Activities read screen size for layout and the seed for deterministic play.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 30)
	Seed     int64 // RNG seed, 0 means the platform picks one from the clock

	// Board settings for grid activities.
	BoardSize     int
	Palette       []string
	PointsPerTile int
	Cascade       bool
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:       80,
		ScreenH:       24,
		TickRate:      30,
		Seed:          0,
		BoardSize:     8,
		Palette:       []string{"red", "blue", "green", "yellow", "purple"},
		PointsPerTile: 10,
	}
}

// GameState is the status an activity reports to the platform.
type GameState struct {
	Score    int  // Activity-local score
	GameOver bool // Whether the activity has ended
	Paused   bool // Whether the activity is paused
}

// StepResult is returned by Game.Step after each tick.
// Points carries the score delta earned during this tick, if any.
type StepResult struct {
	State  GameState
	Points int
}
