package candy

import "sort"

// MinRun is the shortest run that clears.
const MinRun = 3

// Cell is a board coordinate.
type Cell struct {
	Row, Col int
}

// Run is the inclusive extent of equal tokens along one axis through the
// selected cell. For a horizontal run Start/End are columns, for a vertical
// run they are rows.
type Run struct {
	Start, End int
}

// Len returns the number of cells in the run.
func (r Run) Len() int {
	return r.End - r.Start + 1
}

// Qualifies reports whether the run is long enough to clear.
func (r Run) Qualifies() bool {
	return r.Len() >= MinRun
}

// MatchResult is the outcome of evaluating one selected cell.
type MatchResult struct {
	Row, Col   int
	Token      Token
	Horizontal Run
	Vertical   Run
}

// Cells returns the cells to clear: the union of the qualifying runs, each
// coordinate once, in row-major order.
func (m MatchResult) Cells() []Cell {
	set := make(map[Cell]struct{})
	if m.Horizontal.Qualifies() {
		for c := m.Horizontal.Start; c <= m.Horizontal.End; c++ {
			set[Cell{Row: m.Row, Col: c}] = struct{}{}
		}
	}
	if m.Vertical.Qualifies() {
		for r := m.Vertical.Start; r <= m.Vertical.End; r++ {
			set[Cell{Row: r, Col: m.Col}] = struct{}{}
		}
	}
	return sortedCells(set)
}

// ClearedCount is the number of distinct cells the result clears.
func (m MatchResult) ClearedCount() int {
	n := 0
	if m.Horizontal.Qualifies() {
		n += m.Horizontal.Len()
	}
	if m.Vertical.Qualifies() {
		n += m.Vertical.Len()
	}
	if m.Horizontal.Qualifies() && m.Vertical.Qualifies() {
		n-- // the selected cell sits on both runs
	}
	return n
}

// Empty reports whether the result clears nothing.
func (m MatchResult) Empty() bool {
	return m.ClearedCount() == 0
}

// Detect finds the maximal runs through (row, col) on both axes. Both axes
// compare against the selected token as it was before anything clears.
// A selection with no qualifying run, or on an empty cell, yields an empty
// result rather than an error.
func Detect(b *Board, row, col int) (MatchResult, error) {
	t, err := b.Get(row, col)
	if err != nil {
		return MatchResult{}, err
	}

	m := MatchResult{
		Row:        row,
		Col:        col,
		Token:      t,
		Horizontal: Run{Start: col, End: col},
		Vertical:   Run{Start: row, End: row},
	}
	if t == Empty {
		return m, nil
	}

	for m.Horizontal.Start > 0 && b.at(row, m.Horizontal.Start-1) == t {
		m.Horizontal.Start--
	}
	for m.Horizontal.End < b.size-1 && b.at(row, m.Horizontal.End+1) == t {
		m.Horizontal.End++
	}
	for m.Vertical.Start > 0 && b.at(m.Vertical.Start-1, col) == t {
		m.Vertical.Start--
	}
	for m.Vertical.End < b.size-1 && b.at(m.Vertical.End+1, col) == t {
		m.Vertical.End++
	}

	return m, nil
}

// FindAllRuns scans the whole board and returns every cell that belongs to
// a horizontal or vertical run of MinRun or more equal tokens.
func FindAllRuns(b *Board) []Cell {
	set := make(map[Cell]struct{})

	for r := range b.size {
		start := 0
		for c := 1; c <= b.size; c++ {
			if c < b.size && b.at(r, c) == b.at(r, start) {
				continue
			}
			if b.at(r, start) != Empty && c-start >= MinRun {
				for k := start; k < c; k++ {
					set[Cell{Row: r, Col: k}] = struct{}{}
				}
			}
			start = c
		}
	}

	for c := range b.size {
		start := 0
		for r := 1; r <= b.size; r++ {
			if r < b.size && b.at(r, c) == b.at(start, c) {
				continue
			}
			if b.at(start, c) != Empty && r-start >= MinRun {
				for k := start; k < r; k++ {
					set[Cell{Row: k, Col: c}] = struct{}{}
				}
			}
			start = r
		}
	}

	return sortedCells(set)
}

// Stable reports whether the board has no empty cell and no run to clear.
func Stable(b *Board) bool {
	return b.Full() && len(FindAllRuns(b)) == 0
}

func sortedCells(set map[Cell]struct{}) []Cell {
	cells := make([]Cell, 0, len(set))
	for c := range set {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}
