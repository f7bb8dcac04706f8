// Package analyzer orchestrates full-game analysis across the four
// deal phases: the initial deal plus up to three reshuffles. Each
// phase is played out greedily, one engine search per move, and the
// per-phase results are aggregated into a whole-game view.
package analyzer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/equity"
	"github.com/csnizik/gapbeater/move"
	"github.com/csnizik/gapbeater/movegen"
	"github.com/csnizik/gapbeater/solver"
)

// Phase identifies one dealt layout of the game.
type Phase int

const (
	PhaseInitialDeal Phase = iota
	PhaseFirstReshuffle
	PhaseSecondReshuffle
	PhaseThirdReshuffle

	NumPhases = 4
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialDeal:
		return "initial deal"
	case PhaseFirstReshuffle:
		return "first reshuffle"
	case PhaseSecondReshuffle:
		return "second reshuffle"
	case PhaseThirdReshuffle:
		return "third reshuffle"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Strategy names for GameAnalysis.
const (
	StrategyBlind              = "blind"
	StrategyPerfectInformation = "perfect_information"
)

// PhaseResult is the outcome of playing one phase out greedily.
type PhaseResult struct {
	Phase        Phase
	InitialBoard *board.Board
	FinalBoard   *board.Board
	Moves        []move.Move
	Evaluation   equity.Result
	Stats        solver.Stats
	IsWinning    bool
}

// GameAnalysis aggregates phase results into a whole-game verdict.
type GameAnalysis struct {
	Phases          []PhaseResult
	Strategy        string
	TotalMoves      int
	FinalEvaluation equity.Result
	IsWon           bool
	Insights        []string
}

// Analyzer drives the search engine phase by phase. It remembers each
// analyzed phase's starting board so that reshuffle layouts can be
// checked against the locked cells carried over from the phase before.
type Analyzer struct {
	gen       *movegen.Generator
	evaluator *equity.Evaluator
	engine    *solver.Solver

	phaseBoards [NumPhases]*board.Board
}

func New(gen *movegen.Generator, evaluator *equity.Evaluator, engine *solver.Solver) *Analyzer {
	return &Analyzer{gen: gen, evaluator: evaluator, engine: engine}
}

// AnalyzeBlind plays out the initial deal with no knowledge of future
// reshuffles: repeatedly search for the single best move, apply it,
// and stop when no move remains or the board is won.
func (a *Analyzer) AnalyzeBlind(ctx context.Context, codes []string) (PhaseResult, error) {
	b, err := board.LoadFlat(codes)
	if err != nil {
		return PhaseResult{}, fmt.Errorf("initial deal: %w", err)
	}
	a.phaseBoards[PhaseInitialDeal] = b
	return a.playOut(ctx, PhaseInitialDeal, b)
}

// AnalyzeReshuffle plays out one reshuffle phase in blind mode. The
// previous phase must already have been analyzed; its locked cells
// must reappear unchanged in the new layout.
func (a *Analyzer) AnalyzeReshuffle(ctx context.Context, phase Phase, codes []string) (PhaseResult, error) {
	if phase <= PhaseInitialDeal || phase >= NumPhases {
		return PhaseResult{}, fmt.Errorf("phase %v is not a reshuffle phase", phase)
	}
	prev := a.phaseBoards[phase-1]
	if prev == nil {
		return PhaseResult{}, fmt.Errorf("%v: previous phase %v not analyzed yet", phase, phase-1)
	}
	b, err := a.buildReshuffleBoard(prev, codes)
	if err != nil {
		return PhaseResult{}, fmt.Errorf("%v: %w", phase, err)
	}
	a.phaseBoards[phase] = b
	return a.playOut(ctx, phase, b)
}

// AnalyzeBlindGame runs the blind strategy over every provided layout
// in deal order. Analysis stops at the first phase that wins.
func (a *Analyzer) AnalyzeBlindGame(ctx context.Context, layouts [][]string) (GameAnalysis, error) {
	if len(layouts) == 0 || len(layouts) > NumPhases {
		return GameAnalysis{}, fmt.Errorf("expected 1 to %d phase layouts, got %d", NumPhases, len(layouts))
	}
	var phases []PhaseResult
	for i, codes := range layouts {
		var (
			result PhaseResult
			err    error
		)
		if Phase(i) == PhaseInitialDeal {
			result, err = a.AnalyzeBlind(ctx, codes)
		} else {
			result, err = a.AnalyzeReshuffle(ctx, Phase(i), codes)
		}
		if err != nil {
			return GameAnalysis{}, err
		}
		phases = append(phases, result)
		if result.IsWinning {
			break
		}
	}
	return a.assemble(phases, StrategyBlind), nil
}

// AnalyzePerfectInformation analyzes the whole game knowing every
// phase's layout up front. All phase boards are built first, then the
// phases are played out from the last provided layout backward to the
// first. Despite the name this is not backward induction: each phase
// is still played out greedily on its own, and a later phase's needs
// never change an earlier phase's move choice.
func (a *Analyzer) AnalyzePerfectInformation(ctx context.Context, layouts [][]string) (GameAnalysis, error) {
	if len(layouts) == 0 || len(layouts) > NumPhases {
		return GameAnalysis{}, fmt.Errorf("expected 1 to %d phase layouts, got %d", NumPhases, len(layouts))
	}
	boards := make([]*board.Board, len(layouts))
	for i, codes := range layouts {
		var (
			b   *board.Board
			err error
		)
		if i == 0 {
			b, err = board.LoadFlat(codes)
		} else {
			b, err = a.buildReshuffleBoard(boards[i-1], codes)
		}
		if err != nil {
			return GameAnalysis{}, fmt.Errorf("%v: %w", Phase(i), err)
		}
		boards[i] = b
		a.phaseBoards[i] = b
	}

	results := make([]PhaseResult, len(boards))
	for i := len(boards) - 1; i >= 0; i-- {
		result, err := a.playOut(ctx, Phase(i), boards[i])
		if err != nil {
			return GameAnalysis{}, err
		}
		results[i] = result
	}

	// Assemble in deal order, stopping at the first winning phase.
	var phases []PhaseResult
	for _, result := range results {
		phases = append(phases, result)
		if result.IsWinning {
			break
		}
	}
	return a.assemble(phases, StrategyPerfectInformation), nil
}

// playOut is the greedy per-phase loop shared by every analysis mode.
func (a *Analyzer) playOut(ctx context.Context, phase Phase, b *board.Board) (PhaseResult, error) {
	var moves []move.Move
	cur := b
	for {
		result, err := a.engine.Solve(ctx, cur)
		if err != nil {
			return PhaseResult{}, fmt.Errorf("%v: %w", phase, err)
		}
		if result.BestMove == nil {
			break
		}
		next, err := a.gen.Apply(cur, *result.BestMove)
		if err != nil {
			return PhaseResult{}, fmt.Errorf("%v: applying %s: %w", phase, result.BestMove, err)
		}
		moves = append(moves, *result.BestMove)
		cur = next
		if cur.IsWinning() {
			break
		}
	}

	evaluation := a.evaluator.Evaluate(cur)
	won := cur.IsWinning()
	if !won {
		for _, d := range a.DiagnoseDeadPosition(cur) {
			log.Debug().Stringer("phase", phase).Str("diagnosis", d.String()).
				Msg("dead-position")
		}
	}
	log.Debug().Stringer("phase", phase).Int("moves", len(moves)).
		Float64("score", evaluation.Score).Bool("won", won).Msg("phase-complete")

	return PhaseResult{
		Phase:        phase,
		InitialBoard: b,
		FinalBoard:   cur,
		Moves:        moves,
		Evaluation:   evaluation,
		Stats:        a.engine.Stats(),
		IsWinning:    won,
	}, nil
}

// buildReshuffleBoard loads a reshuffle layout and checks that every
// cell locked in the previous phase reappears with the identical card
// at the identical coordinate. A mismatch means the layout was entered
// inconsistently; it is reported as a LockedCellError, never patched.
func (a *Analyzer) buildReshuffleBoard(prev *board.Board, codes []string) (*board.Board, error) {
	b, err := board.LoadFlat(codes)
	if err != nil {
		return nil, err
	}
	for _, coord := range prev.LockedCells() {
		want, _ := prev.Get(coord.Row, coord.Col)
		got, occupied := b.Get(coord.Row, coord.Col)
		if !occupied || got != want {
			return nil, fmt.Errorf("reshuffle layout does not preserve %s at %s: %w",
				want, coord, &board.LockedCellError{Row: coord.Row, Col: coord.Col})
		}
	}
	return b, nil
}

func (a *Analyzer) assemble(phases []PhaseResult, strategy string) GameAnalysis {
	analysis := GameAnalysis{
		Phases:     phases,
		Strategy:   strategy,
		TotalMoves: lo.SumBy(phases, func(p PhaseResult) int { return len(p.Moves) }),
		IsWon:      lo.SomeBy(phases, func(p PhaseResult) bool { return p.IsWinning }),
	}
	if len(phases) > 0 {
		analysis.FinalEvaluation = phases[len(phases)-1].Evaluation
	}
	analysis.Insights = insights(analysis)
	return analysis
}

func insights(analysis GameAnalysis) []string {
	var out []string
	if analysis.IsWon {
		out = append(out, "Game can be won with optimal play")
	} else {
		out = append(out, "Game cannot be won - focus on maximizing final position")
	}
	for _, p := range analysis.Phases {
		if len(p.Moves) == 0 {
			continue
		}
		if p.Moves[0].ToCol == 0 {
			out = append(out, fmt.Sprintf("Phase %d: Prioritize starting new sequences", int(p.Phase)))
		} else {
			out = append(out, fmt.Sprintf("Phase %d: Focus on extending existing sequences", int(p.Phase)))
		}
	}
	switch {
	case analysis.TotalMoves <= 10:
		out = append(out, "Efficient solution with minimal moves")
	case analysis.TotalMoves <= 20:
		out = append(out, "Moderate complexity solution")
	default:
		out = append(out, "Complex position requiring many moves")
	}
	return out
}

// StrategyComparison summarizes blind vs perfect-information outcomes.
type StrategyComparison struct {
	Blind       StrategySummary
	Perfect     StrategySummary
	Improvement string
}

type StrategySummary struct {
	TotalMoves int
	FinalScore float64
	GameWon    bool
}

func (s StrategySummary) String() string {
	return fmt.Sprintf("%d moves, final score %.1f, won=%v", s.TotalMoves, s.FinalScore, s.GameWon)
}

// CompareStrategies contrasts a blind analysis with a
// perfect-information analysis of the same game.
func CompareStrategies(blind, perfect GameAnalysis) StrategyComparison {
	c := StrategyComparison{
		Blind: StrategySummary{
			TotalMoves: blind.TotalMoves,
			FinalScore: blind.FinalEvaluation.Score,
			GameWon:    blind.IsWon,
		},
		Perfect: StrategySummary{
			TotalMoves: perfect.TotalMoves,
			FinalScore: perfect.FinalEvaluation.Score,
			GameWon:    perfect.IsWon,
		},
	}
	if c.Perfect.FinalScore > c.Blind.FinalScore {
		c.Improvement = fmt.Sprintf("Perfect information strategy scores %.1f points higher",
			c.Perfect.FinalScore-c.Blind.FinalScore)
	} else {
		c.Improvement = "No significant improvement from perfect information"
	}
	return c
}
