// Package movegen enumerates, validates, and applies legal moves for a
// Gaps board. Every gap admits at most one move: the unique card that
// continues the run to its left, or, for column-0 gaps, the best
// available 2.
package movegen

import (
	"fmt"

	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/card"
	"github.com/csnizik/gapbeater/move"
)

// IllegalMoveError indicates an Apply of a move that failed
// revalidation. Under correct use it never occurs; it signals a
// generation/application mismatch.
type IllegalMoveError struct {
	Move move.Move
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: %s", e.Move)
}

// Generator generates legal moves. It is stateless; a single instance
// may serve any number of boards.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// RequiredCard determines which card can legally fill the gap at
// (row, col), and false if the gap is unfillable. For column-0 gaps
// this is the lowest-suit 2 that is off column 0, unlocked, and whose
// suit does not already hold a column-0 cell.
func (g *Generator) RequiredCard(b *board.Board, row, col int) (card.Card, bool) {
	if col == 0 {
		return g.bestAvailableTwo(b)
	}
	left, ok := b.Get(row, col-1)
	if !ok {
		// Gap to the left; permanently unfillable.
		return card.Card{}, false
	}
	next, ok := left.Succ()
	if !ok {
		// King trap.
		return card.Card{}, false
	}
	return next, true
}

// bestAvailableTwo picks the lowest-indexed suit whose 2 could start a
// new run in a column-0 gap.
func (g *Generator) bestAvailableTwo(b *board.Board) (card.Card, bool) {
	occupied := [card.NumSuits]bool{}
	for row := 0; row < board.NumRows; row++ {
		if c, ok := b.Get(row, 0); ok && c.Rank == card.MinRank {
			occupied[c.Suit] = true
		}
	}
	for s := card.Suit(0); s < card.NumSuits; s++ {
		if occupied[s] {
			continue
		}
		two := card.Card{Rank: card.MinRank, Suit: s}
		pos, ok := b.Find(two)
		if !ok || pos.Col == 0 || b.IsLocked(pos.Row, pos.Col) {
			continue
		}
		return two, true
	}
	return card.Card{}, false
}

// GenAll enumerates every legal move, column-0 gaps first, then the
// remaining gaps in row-major order.
//
// Known quirk, preserved deliberately: the chosen source 2 is not
// marked consumed across multiple column-0 gaps examined in the same
// call, so two simultaneous column-0 gaps can both propose the same
// source card.
func (g *Generator) GenAll(b *board.Board) []move.Move {
	var moves []move.Move
	for _, gap := range b.Gaps() {
		if gap.Col != 0 {
			continue
		}
		if m, ok := g.moveForGap(b, gap); ok {
			moves = append(moves, m)
		}
	}
	for _, gap := range b.Gaps() {
		if gap.Col == 0 {
			continue
		}
		if m, ok := g.moveForGap(b, gap); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

func (g *Generator) moveForGap(b *board.Board, gap board.Coord) (move.Move, bool) {
	required, ok := g.RequiredCard(b, gap.Row, gap.Col)
	if !ok {
		return move.Move{}, false
	}
	pos, ok := b.Find(required)
	if !ok || b.IsLocked(pos.Row, pos.Col) {
		return move.Move{}, false
	}
	return move.Move{
		FromRow: pos.Row,
		FromCol: pos.Col,
		ToRow:   gap.Row,
		ToCol:   gap.Col,
		Card:    required,
	}, true
}

// CountMoves returns the number of legal moves without materializing
// the move list. Heavily used by the evaluator.
func (g *Generator) CountMoves(b *board.Board) int {
	count := 0
	for _, gap := range b.Gaps() {
		if _, ok := g.moveForGap(b, gap); ok {
			count++
		}
	}
	return count
}

// IsLegal recomputes the destination gap's requirement and confirms the
// move is currently playable.
func (g *Generator) IsLegal(b *board.Board, m move.Move) bool {
	src, ok := b.Get(m.FromRow, m.FromCol)
	if !ok || src != m.Card {
		return false
	}
	if b.IsLocked(m.FromRow, m.FromCol) {
		return false
	}
	if _, occupied := b.Get(m.ToRow, m.ToCol); occupied {
		return false
	}
	required, ok := g.RequiredCard(b, m.ToRow, m.ToCol)
	return ok && required == m.Card
}

// Apply revalidates the move and returns a new board copy with the
// source cell cleared and the destination filled. The input board is
// not mutated.
func (g *Generator) Apply(b *board.Board, m move.Move) (*board.Board, error) {
	if !g.IsLegal(b, m) {
		return nil, &IllegalMoveError{Move: m}
	}
	nb := b.Copy()
	if err := nb.Clear(m.FromRow, m.FromCol); err != nil {
		return nil, err
	}
	if err := nb.Set(m.ToRow, m.ToCol, m.Card); err != nil {
		return nil, err
	}
	return nb, nil
}
