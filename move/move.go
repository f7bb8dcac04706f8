// Package move defines the move type: relocating one card from its
// current cell into a gap.
package move

import (
	"fmt"

	"github.com/csnizik/gapbeater/card"
)

// Move relocates Card from (FromRow, FromCol) into the gap at
// (ToRow, ToCol). Moves are comparable value types.
type Move struct {
	FromRow int
	FromCol int
	ToRow   int
	ToCol   int
	Card    card.Card
}

// String provides a verbose description for debugging and logs.
func (m Move) String() string {
	return fmt.Sprintf("%s from R%dC%d to R%dC%d",
		m.Card, m.FromRow+1, m.FromCol+1, m.ToRow+1, m.ToCol+1)
}

// ShortDescription is the compact user-facing form, e.g. "4C -> R2C4".
func (m Move) ShortDescription() string {
	return fmt.Sprintf("%s -> R%dC%d", m.Card, m.ToRow+1, m.ToCol+1)
}
