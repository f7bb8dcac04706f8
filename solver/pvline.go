package solver

import (
	"fmt"
	"strings"

	"github.com/csnizik/gapbeater/move"
)

// PVLine is the principal line of moves from the search root along the
// best-scoring continuation found so far.
type PVLine struct {
	Moves []move.Move
	score float64
}

// Clear empties the line.
func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update replaces the line with a new best move followed by the best
// continuation found after it.
func (pv *PVLine) Update(m move.Move, childPV PVLine, score float64) {
	pv.Clear()
	pv.Moves = append(pv.Moves, m)
	pv.Moves = append(pv.Moves, childPV.Moves...)
	pv.score = score
}

func (pv PVLine) String() string {
	if len(pv.Moves) == 0 {
		return "(empty pv)"
	}
	parts := make([]string, len(pv.Moves))
	for i, m := range pv.Moves {
		parts[i] = m.ShortDescription()
	}
	return fmt.Sprintf("PV; val %.1f; %s", pv.score, strings.Join(parts, "; "))
}
