package candy

// Snapshot captures the game state for determinism tests.
type Snapshot struct {
	Tick        uint64
	Score       int
	Clicks      int
	LastCleared int
	CursorRow   int
	CursorCol   int
	Board       string
	Paused      bool
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:        g.tick,
		Score:       g.score,
		Clicks:      g.clicks,
		LastCleared: g.lastCleared,
		CursorRow:   g.cursorRow,
		CursorCol:   g.cursorCol,
		Board:       g.board.String(),
		Paused:      g.paused,
	}
}
