// Package equity scores Gaps positions along independent weighted
// features. A winning board short-circuits to the fixed maximal score;
// everything else is a weighted sum of the feature values.
package equity

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/card"
	"github.com/csnizik/gapbeater/movegen"
)

// WinScore is returned for a winning board, with every feature zeroed.
const WinScore = 10000.0

// Feature names one factor of the position evaluation.
type Feature string

const (
	SequenceProgress   Feature = "sequence_progress"
	GapQuality         Feature = "gap_quality"
	KingTrapPenalty    Feature = "king_trap_penalty"
	RowBalance         Feature = "row_balance"
	ReshufflePotential Feature = "reshuffle_potential"
	MoveAvailability   Feature = "move_availability"
)

// AllFeatures lists every feature in a fixed order.
var AllFeatures = []Feature{
	SequenceProgress, GapQuality, KingTrapPenalty,
	RowBalance, ReshufflePotential, MoveAvailability,
}

// Weights maps each feature to its multiplier in the total score.
type Weights map[Feature]float64

// DefaultWeights favors sequence progress and punishes King traps.
func DefaultWeights() Weights {
	return Weights{
		SequenceProgress:   100.0,
		GapQuality:         50.0,
		KingTrapPenalty:    -200.0,
		RowBalance:         25.0,
		ReshufflePotential: 10.0,
		MoveAvailability:   20.0,
	}
}

// Result is a scored position with its per-feature breakdown.
type Result struct {
	Score      float64
	Features   map[Feature]float64
	IsWinning  bool
	IsTerminal bool
}

func (r Result) String() string {
	s := fmt.Sprintf("Total Score: %.2f", r.Score)
	if r.IsWinning {
		s += " (winning)"
	}
	if r.IsTerminal {
		s += " (terminal)"
	}
	for _, f := range AllFeatures {
		s += fmt.Sprintf("\n  %s: %.2f", f, r.Features[f])
	}
	return s
}

// Evaluator scores boards. Weights are fixed at construction.
type Evaluator struct {
	weights Weights
	gen     *movegen.Generator
}

// NewEvaluator returns an evaluator with the given weights; nil weights
// selects the defaults.
func NewEvaluator(weights Weights) *Evaluator {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Evaluator{weights: weights, gen: movegen.NewGenerator()}
}

func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Evaluate scores the board. A winning board always scores exactly
// WinScore with a zeroed breakdown.
func (e *Evaluator) Evaluate(b *board.Board) Result {
	if b.IsWinning() {
		zeroed := make(map[Feature]float64, len(AllFeatures))
		for _, f := range AllFeatures {
			zeroed[f] = 0
		}
		return Result{Score: WinScore, Features: zeroed, IsWinning: true, IsTerminal: true}
	}

	moveCount := e.gen.CountMoves(b)
	features := map[Feature]float64{
		SequenceProgress:   e.sequenceProgress(b),
		GapQuality:         e.gapQuality(b),
		KingTrapPenalty:    e.kingTraps(b),
		RowBalance:         e.rowBalance(b),
		ReshufflePotential: e.reshufflePotential(b),
		MoveAvailability:   moveAvailability(moveCount),
	}
	score := lo.SumBy(AllFeatures, func(f Feature) float64 {
		return e.weights[f] * features[f]
	})
	return Result{
		Score:      score,
		Features:   features,
		IsTerminal: moveCount == 0,
	}
}

// sequenceProgress rewards locked runs superlinearly and adds a fixed
// bonus for a run properly started with a 2 in column 0.
func (e *Evaluator) sequenceProgress(b *board.Board) float64 {
	score := 0.0
	for row := 0; row < board.NumRows; row++ {
		runLen := b.LockedRunLen(row)
		for l := 1; l <= runLen; l++ {
			score += math.Pow(float64(l), 1.5)
		}
		if runLen > 0 {
			score += 20.0
		}
	}
	return score
}

// gapQuality favors gaps that can extend runs and column-0 gaps;
// unfillable gaps are penalized, King gaps most heavily.
func (e *Evaluator) gapQuality(b *board.Board) float64 {
	score := 0.0
	for _, gap := range b.Gaps() {
		if gap.Col == 0 {
			score += 15.0
			continue
		}
		left, ok := b.Get(gap.Row, gap.Col-1)
		switch {
		case !ok:
			score -= 10.0
		case left.Rank == card.King:
			score -= 25.0
		default:
			score += 5.0 + 2.0*float64(b.AscendingRunLen(gap.Row, gap.Col-1))
		}
	}
	return score
}

// kingTraps counts King-then-gap pairs board-wide; the weight applied
// to this feature is negative.
func (e *Evaluator) kingTraps(b *board.Board) float64 {
	count := 0.0
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col < board.NumCols-1; col++ {
			c, ok := b.Get(row, col)
			if !ok || c.Rank != card.King {
				continue
			}
			if _, occupied := b.Get(row, col+1); !occupied {
				count++
			}
		}
	}
	return count
}

// rowBalance rewards even card counts across rows: the score decays
// with the population variance of per-row counts.
func (e *Evaluator) rowBalance(b *board.Board) float64 {
	counts := make([]float64, board.NumRows)
	for row := 0; row < board.NumRows; row++ {
		counts[row] = float64(b.CardCount(row))
	}
	variance := stat.MomentAbout(2, counts, stat.Mean(counts, nil), nil)
	return math.Max(0, 20.0-variance)
}

// reshufflePotential counts cards still free to move in a re-deal, plus
// a bonus for suit balance among them.
func (e *Evaluator) reshufflePotential(b *board.Board) float64 {
	suitCounts := make([]int, card.NumSuits)
	free := 0
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col < board.NumCols; col++ {
			if b.IsLocked(row, col) {
				continue
			}
			if c, ok := b.Get(row, col); ok {
				free++
				suitCounts[c.Suit]++
			}
		}
	}
	score := 0.5 * float64(free)
	if free > 0 {
		if maxCount := lo.Max(suitCounts); maxCount > 0 {
			score += 10.0 * float64(lo.Min(suitCounts)) / float64(maxCount)
		}
	}
	return score
}

// moveAvailability penalizes dead positions and gives a capped bonus
// for mobility.
func moveAvailability(moveCount int) float64 {
	if moveCount == 0 {
		return -50.0
	}
	return math.Min(float64(moveCount)*5.0, 20.0)
}
