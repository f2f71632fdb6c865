package candy

import (
	"fmt"

	"github.com/vovakirdan/kojo/internal/core"
)

const (
	cellWidth = 3 // " ● " per token, "[●]" under the cursor
	hudHeight = 3
	tokenRune = '●'
)

type layout struct {
	boardX, boardY int
	boardW, boardH int
}

// layout centers the board horizontally below the HUD.
func (g *Game) layout() layout {
	w := g.size*cellWidth + 2
	h := g.size + 2
	return layout{
		boardX: (g.screenW - w) / 2,
		boardY: hudHeight,
		boardW: w,
		boardH: h,
	}
}

// cellAt maps a screen position to the board cell drawn there.
func (g *Game) cellAt(x, y int) (row, col int, ok bool) {
	l := g.layout()
	inner := core.NewRect(l.boardX+1, l.boardY+1, g.size*cellWidth, g.size)
	if !inner.Contains(x, y) {
		return 0, 0, false
	}
	return y - inner.Y, (x - inner.X) / cellWidth, true
}

// Render draws the HUD, the board and the footer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	l := g.layout()
	g.renderHUD(dst, l)
	g.renderBoard(dst, l)

	footerY := l.boardY + l.boardH + 1
	if g.paused {
		dst.DrawTextCentered(footerY, "PAUSED - press P to resume")
		return
	}
	dst.DrawTextCentered(footerY, "arrows/click move  enter pop  r new board  tab scores  q quit")
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderHUD(dst *core.Screen, l layout) {
	dst.DrawTextCentered(0, g.Title())

	dst.DrawTextColored(l.boardX, 1, fmt.Sprintf("Score: %d", g.score), core.ColorYellow)

	var last string
	switch {
	case g.clicks == 0:
		last = "Pick a run of 3+"
	case g.lastCleared == 0:
		last = "No match"
	case g.lastWaves > 0:
		last = fmt.Sprintf("+%d (x%d chain)", g.lastCleared*g.pointsPerTile, g.lastWaves)
	default:
		last = fmt.Sprintf("+%d", g.lastCleared*g.pointsPerTile)
	}
	x := core.Max(l.boardX, l.boardX+l.boardW-len([]rune(last)))
	dst.DrawTextColored(x, 1, last, core.ColorGray)
}

func (g *Game) renderBoard(dst *core.Screen, l layout) {
	dst.DrawBox(core.NewRect(l.boardX, l.boardY, l.boardW, l.boardH), core.ColorGray)

	for r := range g.size {
		y := l.boardY + 1 + r
		for c := range g.size {
			x := l.boardX + 1 + c*cellWidth
			t := g.board.at(r, c)

			if r == g.cursorRow && c == g.cursorCol {
				dst.SetColored(x, y, '[', core.ColorBrightWhite)
				dst.SetColored(x+2, y, ']', core.ColorBrightWhite)
			}
			if t != Empty {
				dst.SetColored(x+1, y, tokenRune, t.Color())
			}
		}
	}
}
