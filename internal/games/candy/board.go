// Package candy implements the tile-matching activity: a square board of
// colored tokens where selecting a cell clears the runs of three or more
// equal tokens through it, drops the survivors and refills from the top.
package candy

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/kojo/internal/core"
)

// Token is the content of one board cell.
type Token uint8

// Empty marks a cleared cell awaiting gravity and refill.
const (
	Empty Token = iota
	Red
	Blue
	Green
	Yellow
	Purple
)

// DefaultSize is the board dimension used when none is configured.
const DefaultSize = 8

// DefaultPalette is the standard five-color palette.
var DefaultPalette = []Token{Red, Blue, Green, Yellow, Purple}

var (
	// ErrOutOfRange is returned for coordinates outside the board.
	ErrOutOfRange = errors.New("candy: cell out of range")
	// ErrBoardSize is returned for boards smaller than a single run.
	ErrBoardSize = errors.New("candy: board size must be at least 3")
	// ErrPalette is returned for an empty palette or one containing Empty.
	ErrPalette = errors.New("candy: invalid palette")
)

var tokenNames = map[Token]string{
	Empty:  "empty",
	Red:    "red",
	Blue:   "blue",
	Green:  "green",
	Yellow: "yellow",
	Purple: "purple",
}

// String returns the lowercase token name.
func (t Token) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", uint8(t))
}

// Color returns the screen color used to draw the token.
func (t Token) Color() core.Color {
	switch t {
	case Red:
		return core.ColorRed
	case Blue:
		return core.ColorBlue
	case Green:
		return core.ColorGreen
	case Yellow:
		return core.ColorYellow
	case Purple:
		return core.ColorMagenta
	default:
		return core.ColorDefault
	}
}

// ParseToken maps a palette name ("red", "Blue", ...) to its token.
func ParseToken(name string) (Token, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for t, n := range tokenNames {
		if t != Empty && n == needle {
			return t, nil
		}
	}
	return Empty, fmt.Errorf("%w: unknown token %q", ErrPalette, name)
}

// ParsePalette converts palette names into tokens, rejecting duplicates.
func ParsePalette(names []string) ([]Token, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: palette is empty", ErrPalette)
	}

	seen := make(map[Token]bool, len(names))
	palette := make([]Token, 0, len(names))
	for _, name := range names {
		t, err := ParseToken(name)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			return nil, fmt.Errorf("%w: duplicate token %q", ErrPalette, name)
		}
		seen[t] = true
		palette = append(palette, t)
	}
	return palette, nil
}

func validatePalette(palette []Token) error {
	if len(palette) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrPalette)
	}
	for _, t := range palette {
		if t == Empty {
			return fmt.Errorf("%w: palette contains the empty marker", ErrPalette)
		}
	}
	return nil
}

// Board is a fixed-size square grid of tokens, indexed [row][col] with
// row 0 at the top.
type Board struct {
	size  int
	cells [][]Token
}

// NewBoard fills a size×size board with independent uniform draws from the
// palette. The result may already contain runs; no solved start is promised.
func NewBoard(size int, palette []Token, rng *rand.Rand) (*Board, error) {
	if size < MinRun {
		return nil, ErrBoardSize
	}
	if err := validatePalette(palette); err != nil {
		return nil, err
	}

	b := emptyBoard(size)
	for r := range size {
		for c := range size {
			b.cells[r][c] = randomToken(rng, palette)
		}
	}
	return b, nil
}

// BoardFromRows builds a board from explicit rows, which must form a square.
func BoardFromRows(rows [][]Token) (*Board, error) {
	size := len(rows)
	if size < MinRun {
		return nil, ErrBoardSize
	}

	b := emptyBoard(size)
	for r, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("candy: row %d has %d cells, want %d", r, len(row), size)
		}
		copy(b.cells[r], row)
	}
	return b, nil
}

func emptyBoard(size int) *Board {
	cells := make([][]Token, size)
	for r := range cells {
		cells[r] = make([]Token, size)
	}
	return &Board{size: size, cells: cells}
}

func randomToken(rng *rand.Rand, palette []Token) Token {
	return palette[rng.Intn(len(palette))]
}

// Size returns the board dimension.
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// Get returns the token at (row, col).
func (b *Board) Get(row, col int) (Token, error) {
	if !b.InBounds(row, col) {
		return Empty, fmt.Errorf("%w: (%d, %d) on %dx%d board", ErrOutOfRange, row, col, b.size, b.size)
	}
	return b.cells[row][col], nil
}

// Set stores a token (or Empty) at (row, col).
func (b *Board) Set(row, col int, t Token) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d) on %dx%d board", ErrOutOfRange, row, col, b.size, b.size)
	}
	b.cells[row][col] = t
	return nil
}

// at is the unchecked accessor used by the detector and resolver after
// they have validated coordinates.
func (b *Board) at(row, col int) Token {
	return b.cells[row][col]
}

// Full reports whether no cell is empty.
func (b *Board) Full() bool {
	for _, row := range b.cells {
		for _, t := range row {
			if t == Empty {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	clone := emptyBoard(b.size)
	for r := range b.cells {
		copy(clone.cells[r], b.cells[r])
	}
	return clone
}

// Equal reports whether two boards hold the same tokens.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Rows returns a copy of the grid.
func (b *Board) Rows() [][]Token {
	return b.Clone().cells
}

// Column returns a copy of column col, top to bottom.
func (b *Board) Column(col int) []Token {
	out := make([]Token, b.size)
	for r := range b.size {
		out[r] = b.cells[r][col]
	}
	return out
}

// String renders the board with one letter per token, '.' for empty.
func (b *Board) String() string {
	var sb strings.Builder
	for r, row := range b.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, t := range row {
			if t == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(tokenNames[t][0])
		}
	}
	return sb.String()
}
