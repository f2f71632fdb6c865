package candy

import (
	"math/rand"

	"github.com/vovakirdan/kojo/internal/core"
	"github.com/vovakirdan/kojo/internal/registry"
)

// ID is the activity identifier and score source tag.
const ID = "candy"

// DefaultPointsPerTile is the reward for each cleared cell.
const DefaultPointsPerTile = 10

// Game is the tile-matching activity.
type Game struct {
	rng  *rand.Rand
	tick uint64

	board         *Board
	palette       []Token
	size          int
	pointsPerTile int
	cascade       bool

	cursorRow int
	cursorCol int

	score       int // activity-local score
	clicks      int
	lastCleared int
	lastWaves   int

	screenW  int
	screenH  int
	paused   bool
	tooSmall bool
}

// New creates a candy game. Call Reset before use.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// ID returns the activity identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Candy Match"
}

// Reset starts a new session with a fresh board.
// Missing or invalid board settings fall back to the defaults.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	g.size = cfg.BoardSize
	if g.size < MinRun {
		g.size = DefaultSize
	}

	g.palette = DefaultPalette
	if len(cfg.Palette) > 0 {
		if p, err := ParsePalette(cfg.Palette); err == nil {
			g.palette = p
		}
	}

	g.pointsPerTile = cfg.PointsPerTile
	if g.pointsPerTile <= 0 {
		g.pointsPerTile = DefaultPointsPerTile
	}
	g.cascade = cfg.Cascade

	g.score = 0
	g.paused = false
	g.newBoard()
	g.checkScreenSize()
}

// newBoard deals a fresh board and centers the cursor.
func (g *Game) newBoard() {
	// Size and palette were validated in Reset.
	b, err := NewBoard(g.size, g.palette, g.rng)
	if err != nil {
		panic(err)
	}
	g.board = b
	g.cursorRow = g.size / 2
	g.cursorCol = g.size / 2
	g.clicks = 0
	g.lastCleared = 0
	g.lastWaves = 0
}

// checkScreenSize flags terminals too small for the board and HUD.
func (g *Game) checkScreenSize() {
	l := g.layout()
	g.tooSmall = g.screenW < l.boardW || g.screenH < l.boardY+l.boardH+2
}

// Board returns the live board.
func (g *Game) Board() *Board {
	return g.board
}

// Cursor returns the selected cell.
func (g *Game) Cursor() (row, col int) {
	return g.cursorRow, g.cursorCol
}

// Click selects (row, col): it detects the runs through the cell, resolves
// them and returns the points earned. A cell without a qualifying run
// leaves the board unchanged and earns nothing.
func (g *Game) Click(row, col int) (int, error) {
	m, err := Detect(g.board, row, col)
	if err != nil {
		return 0, err
	}

	g.clicks++
	cleared := Resolve(g.board, m, g.rng, g.palette)
	waves := 0
	if cleared > 0 && g.cascade {
		extra, n := Stabilize(g.board, g.rng, g.palette)
		cleared += extra
		waves = n
	}

	g.lastCleared = cleared
	g.lastWaves = waves

	points := cleared * g.pointsPerTile
	g.score += points
	return points, nil
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.newBoard()
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionUp):
		g.cursorRow--
	case in.Has(core.ActionDown):
		g.cursorRow++
	case in.Has(core.ActionLeft):
		g.cursorCol--
	case in.Has(core.ActionRight):
		g.cursorCol++
	}
	g.cursorRow = core.Clamp(g.cursorRow, 0, g.size-1)
	g.cursorCol = core.Clamp(g.cursorCol, 0, g.size-1)

	selected := in.Has(core.ActionConfirm)
	if x, y, ok := in.Click(); ok {
		if row, col, hit := g.cellAt(x, y); hit {
			g.cursorRow, g.cursorCol = row, col
			selected = true
		}
	}

	points := 0
	if selected {
		// The cursor is always on the board, so Click cannot fail here.
		points, _ = g.Click(g.cursorRow, g.cursorCol)
	}

	return core.StepResult{State: g.State(), Points: points}
}

// State returns the current game state. The board never runs out of moves
// to try, so the game never ends on its own.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:  g.score,
		Paused: g.paused || g.tooSmall,
	}
}

// Resize follows a terminal resize without dealing a new board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}
