package candy

import "math/rand"

// maxCascadeWaves bounds Stabilize on degenerate palettes (a single color
// can never settle).
const maxCascadeWaves = 64

// Resolve clears the cells of m, compacts every column downward and refills
// the vacated top cells with fresh draws from the palette. It returns the
// number of distinct cells cleared. An empty match, or a palette that
// could not refill the board (empty, or containing Empty), leaves the board
// untouched and returns 0.
func Resolve(b *Board, m MatchResult, rng *rand.Rand, palette []Token) int {
	if validatePalette(palette) != nil {
		return 0
	}
	return clearCells(b, m.Cells(), rng, palette)
}

// clearCells expects a validated palette.
func clearCells(b *Board, cells []Cell, rng *rand.Rand, palette []Token) int {
	if len(cells) == 0 {
		return 0
	}

	for _, c := range cells {
		b.cells[c.Row][c.Col] = Empty
	}
	Gravity(b)
	Refill(b, rng, palette)

	return len(cells)
}

// Gravity moves the non-empty tokens of each column to the bottom, keeping
// their relative order, and leaves the vacated cells empty at the top.
// It returns how many empty cells each column ends up with.
func Gravity(b *Board) []int {
	vacated := make([]int, b.size)

	for c := range b.size {
		write := b.size - 1
		for r := b.size - 1; r >= 0; r-- {
			t := b.cells[r][c]
			if t == Empty {
				continue
			}
			if r != write {
				b.cells[write][c] = t
			}
			write--
		}

		for r := write; r >= 0; r-- {
			b.cells[r][c] = Empty
		}
		vacated[c] = write + 1
	}

	return vacated
}

// Refill draws a new token for every empty cell, column by column from the
// top. It returns the number of cells filled; an invalid palette fills
// nothing.
func Refill(b *Board, rng *rand.Rand, palette []Token) int {
	if validatePalette(palette) != nil {
		return 0
	}
	filled := 0
	for c := range b.size {
		for r := range b.size {
			if b.cells[r][c] != Empty {
				continue
			}
			b.cells[r][c] = randomToken(rng, palette)
			filled++
		}
	}
	return filled
}

// Stabilize repeatedly clears every run on the board until none remain,
// returning the total cells cleared and the number of waves it took.
// An invalid palette leaves the board untouched.
func Stabilize(b *Board, rng *rand.Rand, palette []Token) (cleared, waves int) {
	if validatePalette(palette) != nil {
		return 0, 0
	}
	for waves < maxCascadeWaves {
		cells := FindAllRuns(b)
		if len(cells) == 0 {
			break
		}
		cleared += clearCells(b, cells, rng, palette)
		waves++
	}
	return cleared, waves
}
