// Package board implements the Gaps solitaire board model: a fixed
// 4x13 grid of cards with derived gap and locked-run sets. Boards are
// value-copied by the search engine before mutation; nothing here is
// safe for concurrent use.
package board

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/csnizik/gapbeater/card"
)

const (
	NumRows  = 4
	NumCols  = 13
	NumCells = NumRows * NumCols
)

// Coord is a cell coordinate, zero-indexed.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("R%dC%d", c.Row+1, c.Col+1)
}

// MalformedBoardError indicates a flat layout that cannot be loaded:
// wrong cell count or an invalid cell code.
type MalformedBoardError struct {
	Index  int // cell index, or -1 for a whole-layout problem
	Reason string
}

func (e *MalformedBoardError) Error() string {
	if e.Index < 0 {
		return "malformed board: " + e.Reason
	}
	return fmt.Sprintf("malformed board at cell %d: %s", e.Index, e.Reason)
}

// LockedCellError indicates an attempt to overwrite or clear a cell
// that is part of a locked run.
type LockedCellError struct {
	Row int
	Col int
}

func (e *LockedCellError) Error() string {
	return fmt.Sprintf("cell R%dC%d is part of a locked run and cannot change", e.Row+1, e.Col+1)
}

type cell struct {
	card     card.Card
	occupied bool
}

// Board is the canonical game state. The gap set and per-row locked-run
// lengths are derived from the grid and recomputed after every
// mutation; they are never maintained incrementally.
type Board struct {
	grid [NumRows][NumCols]cell

	gaps      []Coord
	lockedLen [NumRows]int
}

// New returns an empty board (every cell a gap).
func New() *Board {
	b := &Board{}
	b.recompute()
	return b
}

// LoadFlat constructs a board from a row-major list of exactly NumCells
// cell codes: either the gap marker or a two-character rank+suit code.
func LoadFlat(codes []string) (*Board, error) {
	if len(codes) != NumCells {
		return nil, &MalformedBoardError{
			Index:  -1,
			Reason: fmt.Sprintf("expected %d cells, got %d", NumCells, len(codes)),
		}
	}
	b := &Board{}
	for i, code := range codes {
		if card.IsGapCode(code) {
			continue
		}
		c, err := card.Parse(code)
		if err != nil {
			return nil, &MalformedBoardError{Index: i, Reason: err.Error()}
		}
		b.grid[i/NumCols][i%NumCols] = cell{card: c, occupied: true}
	}
	b.recompute()
	return b, nil
}

// Get returns the card at (row, col) and whether the cell is occupied.
func (b *Board) Get(row, col int) (card.Card, bool) {
	c := b.grid[row][col]
	return c.card, c.occupied
}

// Set places a card at (row, col). It fails if the target cell is part
// of a locked run.
func (b *Board) Set(row, col int, c card.Card) error {
	if b.IsLocked(row, col) {
		return &LockedCellError{Row: row, Col: col}
	}
	b.grid[row][col] = cell{card: c, occupied: true}
	b.recompute()
	return nil
}

// Clear turns (row, col) into a gap. It fails if the cell is part of a
// locked run.
func (b *Board) Clear(row, col int) error {
	if b.IsLocked(row, col) {
		return &LockedCellError{Row: row, Col: col}
	}
	b.grid[row][col] = cell{}
	b.recompute()
	return nil
}

// Gaps returns the coordinates of every empty cell, row-major. The
// returned slice is owned by the board; callers must not mutate it.
func (b *Board) Gaps() []Coord {
	return b.gaps
}

// IsLocked reports whether (row, col) lies inside its row's locked run.
func (b *Board) IsLocked(row, col int) bool {
	return col < b.lockedLen[row]
}

// LockedRunLen returns the length of the locked run anchored at column
// 0 of the given row. Zero if the row does not start with a 2.
func (b *Board) LockedRunLen(row int) int {
	return b.lockedLen[row]
}

// LockedCells returns the coordinates of every locked cell.
func (b *Board) LockedCells() []Coord {
	var cells []Coord
	for row := 0; row < NumRows; row++ {
		for col := 0; col < b.lockedLen[row]; col++ {
			cells = append(cells, Coord{Row: row, Col: col})
		}
	}
	return cells
}

// IsWinning reports whether every row holds ranks 2..13 of a single
// suit in columns 0-11 with a gap in column 12.
func (b *Board) IsWinning() bool {
	for row := 0; row < NumRows; row++ {
		if b.grid[row][NumCols-1].occupied {
			return false
		}
		first := b.grid[row][0]
		if !first.occupied || first.card.Rank != card.MinRank {
			return false
		}
		suit := first.card.Suit
		for col := 0; col < NumCols-1; col++ {
			c := b.grid[row][col]
			if !c.occupied || c.card.Suit != suit || c.card.Rank != card.MinRank+card.Rank(col) {
				return false
			}
		}
	}
	return true
}

// Copy returns an independent deep duplicate. Mutating the copy never
// affects the original.
func (b *Board) Copy() *Board {
	nb := &Board{grid: b.grid, lockedLen: b.lockedLen}
	nb.gaps = make([]Coord, len(b.gaps))
	copy(nb.gaps, b.gaps)
	return nb
}

// Equals reports structural equality of the two grids.
func (b *Board) Equals(other *Board) bool {
	return b.grid == other.grid
}

// Hash returns a full-state digest of the grid contents, recomputed
// from scratch on every call. Used as the transposition-cache key.
func (b *Board) Hash() uint64 {
	var buf [NumCells]byte
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			c := b.grid[row][col]
			if c.occupied {
				// 1..48; zero means gap.
				buf[row*NumCols+col] = byte(c.card.Rank-card.MinRank)*card.NumSuits + byte(c.card.Suit) + 1
			}
		}
	}
	return xxhash.Sum64(buf[:])
}

// Find returns the coordinate of the given card, if it is on the board.
func (b *Board) Find(c card.Card) (Coord, bool) {
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			cl := b.grid[row][col]
			if cl.occupied && cl.card == c {
				return Coord{Row: row, Col: col}, true
			}
		}
	}
	return Coord{}, false
}

// AscendingRunLen returns the length of the ascending same-suit run
// ending at (row, col), or 0 if the cell is empty. The run does not
// need to be locked or anchored at column 0.
func (b *Board) AscendingRunLen(row, col int) int {
	c := b.grid[row][col]
	if !c.occupied {
		return 0
	}
	length := 1
	rank, suit := c.card.Rank, c.card.Suit
	for prev := col - 1; prev >= 0; prev-- {
		pc := b.grid[row][prev]
		if !pc.occupied || pc.card.Suit != suit || pc.card.Rank != rank-1 {
			break
		}
		length++
		rank--
	}
	return length
}

// CardCount returns the number of occupied cells in the given row.
func (b *Board) CardCount(row int) int {
	n := 0
	for col := 0; col < NumCols; col++ {
		if b.grid[row][col].occupied {
			n++
		}
	}
	return n
}

// Flat returns the row-major list of cell codes for this board.
func (b *Board) Flat() []string {
	codes := make([]string, 0, NumCells)
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			c := b.grid[row][col]
			if c.occupied {
				codes = append(codes, c.card.String())
			} else {
				codes = append(codes, card.GapMarker)
			}
		}
	}
	return codes
}

// String renders the grid for debugging output.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < NumRows; row++ {
		cells := make([]string, NumCols)
		for col := 0; col < NumCols; col++ {
			c := b.grid[row][col]
			if c.occupied {
				cells[col] = c.card.String()
			} else {
				cells[col] = card.GapMarker
			}
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// recompute rebuilds the derived gap set and locked-run lengths. Called
// after every grid mutation.
func (b *Board) recompute() {
	b.gaps = b.gaps[:0]
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			if !b.grid[row][col].occupied {
				b.gaps = append(b.gaps, Coord{Row: row, Col: col})
			}
		}
	}
	for row := 0; row < NumRows; row++ {
		b.lockedLen[row] = 0
		first := b.grid[row][0]
		if !first.occupied || first.card.Rank != card.MinRank {
			continue
		}
		length := 1
		prev := first.card
		for col := 1; col < NumCols; col++ {
			c := b.grid[row][col]
			next, ok := prev.Succ()
			if !ok || !c.occupied || c.card != next {
				break
			}
			length++
			prev = c.card
		}
		b.lockedLen[row] = length
	}
}
