// Package solver implements the single-agent iterative-deepening
// branch-and-bound search engine. There is no opponent ply: pruning
// cuts branches that cannot improve the achievable bound, and the
// transposition cache, killer table, and history table are plain
// per-instance state written by the single search goroutine.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/card"
	"github.com/csnizik/gapbeater/equity"
	"github.com/csnizik/gapbeater/move"
	"github.com/csnizik/gapbeater/movegen"
)

const (
	// NearWinScore stops deepening early: a continuation this good is
	// within one move of a true win (equity.WinScore).
	NearWinScore = 9000.0

	// MaxSearchDepth bounds any configured depth; killer tables are
	// sized against it.
	MaxSearchDepth = 63

	MaxKillers = 2

	DefaultMaxTime  = 2 * time.Second
	DefaultMaxDepth = 20

	// Move-ordering offsets.
	hashMoveOffset     = 10000.0
	killerOffset       = 1000.0
	runExtensionBonus  = 50.0
	startSequenceBonus = 30.0
	kingExposePenalty  = -20.0

	// Fraction of system memory offered to the transposition cache.
	cacheMemoryFraction = 0.05
)

// errTimeout unwinds the recursion to the iterative-deepening driver
// when the wall-clock budget runs out. It never escapes Solve.
var errTimeout = errors.New("search budget exhausted")

// Result is the outcome of one Solve call.
type Result struct {
	// BestMove is nil when the position admits no move at all.
	BestMove      *move.Move
	Score         float64
	Depth         int // deepest fully completed iteration
	Nodes         uint64
	Elapsed       time.Duration
	PrincipalLine []move.Move
}

func (r Result) String() string {
	best := "(none)"
	if r.BestMove != nil {
		best = r.BestMove.ShortDescription()
	}
	s := fmt.Sprintf("Best Move: %s\nScore: %.2f\nDepth: %d\nNodes: %d\nTime: %.3fs",
		best, r.Score, r.Depth, r.Nodes, r.Elapsed.Seconds())
	if len(r.PrincipalLine) > 0 {
		pv := PVLine{Moves: r.PrincipalLine, score: r.Score}
		s += "\n" + pv.String()
	}
	return s
}

// Stats is the fixed search-statistics record.
type Stats struct {
	Nodes          uint64
	CacheSize      int
	CacheLookups   uint64
	CacheHits      uint64
	NodesPerSecond float64
	Elapsed        time.Duration
}

type historyKey struct {
	fromRow, fromCol, toRow, toCol int
}

// Solver owns all mutable search state. It is not safe for concurrent
// Solve calls; create one Solver per goroutine if that is ever needed.
type Solver struct {
	gen       *movegen.Generator
	evaluator *equity.Evaluator

	maxTime  time.Duration
	maxDepth int

	ttable  *TranspositionTable
	killers [MaxSearchDepth + 1][MaxKillers]move.Move
	history map[historyKey]float64

	nodes     atomic.Uint64
	startTime time.Time
	elapsed   time.Duration
}

// NewSolver builds a solver. Zero maxTime or maxDepth select the
// defaults.
func NewSolver(gen *movegen.Generator, evaluator *equity.Evaluator,
	maxTime time.Duration, maxDepth int) *Solver {
	if maxTime <= 0 {
		maxTime = DefaultMaxTime
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxDepth > MaxSearchDepth {
		maxDepth = MaxSearchDepth
	}
	return &Solver{
		gen:       gen,
		evaluator: evaluator,
		maxTime:   maxTime,
		maxDepth:  maxDepth,
		ttable:    newTranspositionTable(cacheMemoryFraction),
		history:   map[historyKey]float64{},
	}
}

// ClearCache resets the transposition cache, killer table, history
// table, and counters. The cache otherwise persists across Solve calls.
func (s *Solver) ClearCache() {
	s.ttable.reset()
	for ply := range s.killers {
		s.killers[ply][0] = move.Move{}
		s.killers[ply][1] = move.Move{}
	}
	clear(s.history)
	s.nodes.Store(0)
	s.elapsed = 0
}

// Stats returns the statistics of the most recent Solve call.
func (s *Solver) Stats() Stats {
	elapsed := s.elapsed
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	nodes := s.nodes.Load()
	return Stats{
		Nodes:          nodes,
		CacheSize:      s.ttable.Size(),
		CacheLookups:   s.ttable.lookups,
		CacheHits:      s.ttable.hits,
		NodesPerSecond: float64(nodes) / elapsed.Seconds(),
		Elapsed:        s.elapsed,
	}
}

// Solve runs iterative deepening from the given position and returns
// the best completed-depth result. On budget exhaustion (or external
// cancellation) the deepest fully completed iteration wins; partial
// iterations are discarded.
func (s *Solver) Solve(ctx context.Context, b *board.Board) (Result, error) {
	s.startTime = time.Now()
	s.nodes.Store(0)

	best := Result{Score: math.Inf(-1)}

	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		err := s.iterativelyDeepen(ctx, b, &best)
		done <- true
		return err
	})

	err := g.Wait()
	s.elapsed = time.Since(s.startTime)
	best.Nodes = s.nodes.Load()
	best.Elapsed = s.elapsed
	if err != nil {
		return Result{}, err
	}
	log.Debug().
		Uint64("ttable-created", s.ttable.created).
		Uint64("ttable-lookups", s.ttable.lookups).
		Uint64("ttable-hits", s.ttable.hits).
		Float64("time-elapsed-sec", s.elapsed.Seconds()).
		Msg("solve-returning")
	return best, nil
}

func (s *Solver) iterativelyDeepen(ctx context.Context, b *board.Board, best *Result) error {
	for depth := 1; depth <= s.maxDepth; depth++ {
		if s.timeUp() || ctx.Err() != nil {
			break
		}
		pv := PVLine{}
		score, err := s.search(ctx, b, depth, math.Inf(-1), math.Inf(1), &pv, true)
		if errors.Is(err, errTimeout) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			// Keep the last fully completed depth.
			break
		}
		if err != nil {
			return err
		}
		if len(pv.Moves) == 0 {
			// No move exists; deeper iterations cannot find one either.
			break
		}
		m := pv.Moves[0]
		best.BestMove = &m
		best.Score = score
		best.Depth = depth
		best.PrincipalLine = append(best.PrincipalLine[:0], pv.Moves...)
		log.Debug().Int("depth", depth).Float64("score", score).
			Str("pv", pv.String()).Msg("deepening-iteratively")
		if score >= NearWinScore {
			break
		}
	}
	return nil
}

// search evaluates one node: transposition lookup, leaf evaluation, or
// ordered expansion of children with branch-and-bound pruning.
func (s *Solver) search(ctx context.Context, b *board.Board, depth int,
	alpha, beta float64, pv *PVLine, isRoot bool) (float64, error) {
	if s.timeUp() || ctx.Err() != nil {
		return 0, errTimeout
	}
	s.nodes.Add(1)

	nodeKey := b.Hash()
	ttEntry := s.ttable.lookup(nodeKey)
	var ttMove *move.Move
	if ttEntry.valid() {
		if int(ttEntry.depth) >= depth && !isRoot {
			switch ttEntry.flag {
			case TTExact:
				return ttEntry.score, nil
			case TTLower:
				if ttEntry.score >= beta {
					return ttEntry.score, nil
				}
			case TTUpper:
				if ttEntry.score <= alpha {
					return ttEntry.score, nil
				}
			}
		}
		if ttEntry.hasPlay {
			ttMove = &ttEntry.play
		}
	}

	if depth == 0 {
		return s.evaluator.Evaluate(b).Score, nil
	}
	children := s.gen.GenAll(b)
	if len(children) == 0 {
		return s.evaluator.Evaluate(b).Score, nil
	}
	s.orderMoves(b, children, depth, ttMove)

	alphaOrig := alpha
	bestValue := math.Inf(-1)
	var bestMove move.Move
	var hasBest bool
	childPV := PVLine{}

	for _, child := range children {
		nb, err := s.gen.Apply(b, child)
		if err != nil {
			// Generation/application mismatch; an internal invariant
			// violation, not a searchable state.
			return 0, err
		}
		value, err := s.search(ctx, nb, depth-1, alpha, beta, &childPV, false)
		if err != nil {
			return value, err
		}
		if value > bestValue {
			bestValue = value
			bestMove = child
			hasBest = true
			pv.Update(child, childPV, value)
		}
		alpha = math.Max(alpha, value)
		if alpha >= beta {
			s.storeKiller(depth, child)
			s.history[historyKey{child.FromRow, child.FromCol, child.ToRow, child.ToCol}] += float64(depth * depth)
			break
		}
		childPV.Clear()
	}

	entry := TableEntry{
		score:   bestValue,
		depth:   uint8(depth),
		play:    bestMove,
		hasPlay: hasBest,
	}
	switch {
	case bestValue <= alphaOrig:
		entry.flag = TTUpper
	case bestValue >= beta:
		entry.flag = TTLower
	default:
		entry.flag = TTExact
	}
	s.ttable.store(nodeKey, entry)

	return bestValue, nil
}

// orderMoves sorts in place, best first. The sort is stable so that
// ties fall back to generation order.
func (s *Solver) orderMoves(b *board.Board, moves []move.Move, depth int, ttMove *move.Move) {
	type scored struct {
		m     move.Move
		score float64
	}
	ranked := make([]scored, len(moves))
	for i, m := range moves {
		score := 0.0
		if ttMove != nil && m == *ttMove {
			score += hashMoveOffset
		}
		if m == s.killers[depth][0] || m == s.killers[depth][1] {
			score += killerOffset
		}
		score += s.history[historyKey{m.FromRow, m.FromCol, m.ToRow, m.ToCol}]
		score += staticMoveScore(b, m)
		ranked[i] = scored{m: m, score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i, r := range ranked {
		moves[i] = r.m
	}
}

// staticMoveScore is a cheap positional estimate used only for
// ordering.
func staticMoveScore(b *board.Board, m move.Move) float64 {
	score := 0.0
	if m.ToCol > 0 {
		if left, ok := b.Get(m.ToRow, m.ToCol-1); ok {
			if next, hasNext := left.Succ(); hasNext && next == m.Card {
				score += runExtensionBonus
			}
		}
	}
	if m.ToCol == 0 && m.Card.Rank == card.MinRank {
		score += startSequenceBonus
	}
	if m.FromCol > 0 {
		if left, ok := b.Get(m.FromRow, m.FromCol-1); ok && left.Rank == card.King {
			score += kingExposePenalty
		}
	}
	return score
}

func (s *Solver) storeKiller(depth int, m move.Move) {
	if m != s.killers[depth][0] {
		s.killers[depth][1] = s.killers[depth][0]
		s.killers[depth][0] = m
	}
}

func (s *Solver) timeUp() bool {
	return time.Since(s.startTime) >= s.maxTime
}
