package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/csnizik/gapbeater/analyzer"
	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/config"
	"github.com/csnizik/gapbeater/equity"
	"github.com/csnizik/gapbeater/movegen"
	"github.com/csnizik/gapbeater/solver"
)

var (
	GitVersion string
)

// readLayout loads one phase layout: 52 whitespace-separated cell
// codes, gaps written as "--".
func readLayout(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	codes := strings.Fields(string(data))
	if len(codes) != board.NumCells {
		return nil, &board.MalformedBoardError{
			Index:  -1,
			Reason: fmt.Sprintf("%s: expected %d cell codes, got %d", path, board.NumCells, len(codes)),
		}
	}
	return codes, nil
}

func printPhase(result analyzer.PhaseResult) {
	fmt.Printf("\n=== %s ===\n", result.Phase)
	if len(result.Moves) == 0 {
		fmt.Println("No moves available.")
	}
	for i, m := range result.Moves {
		fmt.Printf("%d. %s\n", i+1, m.ShortDescription())
	}
	fmt.Printf("Won: %v\n", result.IsWinning)
	fmt.Println(result.Evaluation)
	stats := result.Stats
	fmt.Printf("Nodes: %d  Nodes/s: %.0f  Cache: %d entries, %d/%d hits  Time: %.3fs\n",
		stats.Nodes, stats.NodesPerSecond, stats.CacheSize,
		stats.CacheHits, stats.CacheLookups, stats.Elapsed.Seconds())
}

func printAnalysis(analysis analyzer.GameAnalysis) {
	for _, p := range analysis.Phases {
		printPhase(p)
	}
	fmt.Printf("\nStrategy: %s\n", analysis.Strategy)
	fmt.Printf("Total moves: %d\n", analysis.TotalMoves)
	fmt.Printf("Game won: %v\n", analysis.IsWon)
	for _, insight := range analysis.Insights {
		fmt.Println("- " + insight)
	}
}

// runRandomDeals analyzes n freshly shuffled initial deals and prints
// an aggregate summary. Handy for weight tuning.
func runRandomDeals(ctx context.Context, newAnalyzer func() *analyzer.Analyzer, n int) {
	wins := 0
	totalMoves := 0
	totalScore := 0.0
	for i := 0; i < n; i++ {
		deal := board.Shuffled()
		result, err := newAnalyzer().AnalyzeBlind(ctx, deal.Flat())
		if err != nil {
			log.Fatal().Err(err).Int("deal", i+1).Msg("analyzing random deal")
		}
		if result.IsWinning {
			wins++
		}
		totalMoves += len(result.Moves)
		totalScore += result.Evaluation.Score
		log.Info().Int("deal", i+1).Int("moves", len(result.Moves)).
			Float64("score", result.Evaluation.Score).Bool("won", result.IsWinning).
			Msg("random-deal")
	}
	fmt.Printf("Deals: %d  Won: %d (%.1f%%)  Avg moves: %.1f  Avg score: %.1f\n",
		n, wins, 100*float64(wins)/float64(n),
		float64(totalMoves)/float64(n), totalScore/float64(n))
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("parsing flags")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var logger zerolog.Logger
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	log.Logger = logger
	if GitVersion != "" {
		log.Info().Str("version", GitVersion).Msg("gapbeater")
	}

	weights := equity.DefaultWeights()
	if cfg.WeightsPath != "" {
		var err error
		weights, err = equity.LoadWeights(cfg.WeightsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.WeightsPath).Msg("loading weights")
		}
	}

	gen := movegen.NewGenerator()
	evaluator := equity.NewEvaluator(weights)
	ctx := context.Background()

	newAnalyzer := func() *analyzer.Analyzer {
		engine := solver.NewSolver(gen, evaluator, cfg.MaxSearchTime, cfg.MaxDepth)
		return analyzer.New(gen, evaluator, engine)
	}

	if cfg.RandomDeals > 0 {
		runRandomDeals(ctx, newAnalyzer, cfg.RandomDeals)
		return
	}

	if len(cfg.Args) == 0 || len(cfg.Args) > analyzer.NumPhases {
		fmt.Fprintf(os.Stderr, "usage: gapbeater [flags] deal.txt [reshuffle1.txt [reshuffle2.txt [reshuffle3.txt]]]\n")
		os.Exit(2)
	}

	layouts := make([][]string, 0, len(cfg.Args))
	for _, path := range cfg.Args {
		codes, err := readLayout(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("reading layout")
		}
		layouts = append(layouts, codes)
	}

	blind, err := newAnalyzer().AnalyzeBlindGame(ctx, layouts)
	if err != nil {
		log.Fatal().Err(err).Msg("blind analysis")
	}
	printAnalysis(blind)

	if len(layouts) > 1 {
		perfect, err := newAnalyzer().AnalyzePerfectInformation(ctx, layouts)
		if err != nil {
			log.Fatal().Err(err).Msg("perfect-information analysis")
		}
		printAnalysis(perfect)

		comparison := analyzer.CompareStrategies(blind, perfect)
		fmt.Printf("\nBlind:   %s\nPerfect: %s\n%s\n",
			comparison.Blind, comparison.Perfect, comparison.Improvement)
	}
}
