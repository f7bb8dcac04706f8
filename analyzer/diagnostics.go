package analyzer

import (
	"fmt"

	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/card"
)

// GapReason classifies why a dead position's gap yields no move.
type GapReason int

const (
	// GapUnfillable marks a gap with a King or another gap to its
	// left, or a column-0 gap with no available 2.
	GapUnfillable GapReason = iota
	// GapCardAbsent marks a gap whose required card is not on the
	// board at all.
	GapCardAbsent
	// GapCardLocked marks a gap whose required card sits in a locked
	// run and can never move.
	GapCardLocked
)

func (r GapReason) String() string {
	switch r {
	case GapUnfillable:
		return "cannot be filled"
	case GapCardAbsent:
		return "required card not on board"
	case GapCardLocked:
		return "required card locked"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// GapDiagnosis explains one gap of a dead position.
type GapDiagnosis struct {
	Gap    board.Coord
	Reason GapReason
	// Required is meaningful only when Reason is not GapUnfillable.
	Required card.Card
}

func (d GapDiagnosis) String() string {
	if d.Reason == GapUnfillable {
		return fmt.Sprintf("gap %s: %s", d.Gap, d.Reason)
	}
	return fmt.Sprintf("gap %s: needs %s (%s)", d.Gap, d.Required, d.Reason)
}

// DiagnoseDeadPosition explains, gap by gap, why a position with no
// legal moves is stuck. Gaps that do admit a move are skipped, so on a
// truly dead board every gap is reported.
func (a *Analyzer) DiagnoseDeadPosition(b *board.Board) []GapDiagnosis {
	var out []GapDiagnosis
	for _, gap := range b.Gaps() {
		required, ok := a.gen.RequiredCard(b, gap.Row, gap.Col)
		if !ok {
			out = append(out, GapDiagnosis{Gap: gap, Reason: GapUnfillable})
			continue
		}
		pos, found := b.Find(required)
		switch {
		case !found:
			out = append(out, GapDiagnosis{Gap: gap, Reason: GapCardAbsent, Required: required})
		case b.IsLocked(pos.Row, pos.Col):
			out = append(out, GapDiagnosis{Gap: gap, Reason: GapCardLocked, Required: required})
		}
	}
	return out
}
