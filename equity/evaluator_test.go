package equity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/card"
)

func emptyCodes() []string {
	codes := make([]string, board.NumCells)
	for i := range codes {
		codes[i] = card.GapMarker
	}
	return codes
}

func solvedCodes() []string {
	codes := make([]string, 0, board.NumCells)
	for s := card.Suit(0); s < card.NumSuits; s++ {
		for r := card.MinRank; r <= card.MaxRank; r++ {
			codes = append(codes, card.Card{Rank: r, Suit: s}.String())
		}
		codes = append(codes, card.GapMarker)
	}
	return codes
}

func TestWinningBoardScoresMax(t *testing.T) {
	b, err := board.LoadFlat(solvedCodes())
	require.NoError(t, err)

	res := NewEvaluator(nil).Evaluate(b)
	assert.Equal(t, WinScore, res.Score)
	assert.True(t, res.IsWinning)
	assert.True(t, res.IsTerminal)
	for _, f := range AllFeatures {
		assert.Zero(t, res.Features[f], string(f))
	}
}

func TestEmptyBoardFiniteScore(t *testing.T) {
	b, err := board.LoadFlat(emptyCodes())
	require.NoError(t, err)

	res := NewEvaluator(nil).Evaluate(b)
	assert.False(t, res.IsWinning)
	assert.True(t, res.IsTerminal) // no cards, no moves
	assert.False(t, math.IsInf(res.Score, 0))
	assert.False(t, math.IsNaN(res.Score))
	assert.Less(t, res.Score, WinScore)
}

func TestSequenceProgressFeature(t *testing.T) {
	codes := emptyCodes()
	codes[0], codes[1], codes[2] = "2C", "3C", "4C"
	b, err := board.LoadFlat(codes)
	require.NoError(t, err)

	res := NewEvaluator(nil).Evaluate(b)
	want := 1.0 + math.Pow(2, 1.5) + math.Pow(3, 1.5) + 20.0
	assert.InDelta(t, want, res.Features[SequenceProgress], 1e-9)
}

func TestKingTrapFeature(t *testing.T) {
	codes := emptyCodes()
	codes[5] = "KH"       // (0,5) then gap at (0,6)
	codes[13+9] = "KC"    // (1,9) then gap
	codes[2*13+3] = "KD"  // (2,3)
	codes[2*13+4] = "8S"  // occupied right neighbor: not a trap
	codes[3*13+12] = "KS" // last column: no right neighbor
	b, err := board.LoadFlat(codes)
	require.NoError(t, err)

	res := NewEvaluator(nil).Evaluate(b)
	assert.Equal(t, 2.0, res.Features[KingTrapPenalty])
	// The weight applied to this feature is negative.
	assert.Negative(t, DefaultWeights()[KingTrapPenalty])
}

func TestRowBalanceFeature(t *testing.T) {
	balanced := emptyCodes()
	// Two cards in every row.
	balanced[3], balanced[5] = "5C", "7D"
	balanced[13+3], balanced[13+5] = "5H", "7S"
	balanced[2*13+3], balanced[2*13+5] = "6C", "8D"
	balanced[3*13+3], balanced[3*13+5] = "6H", "8S"
	b, err := board.LoadFlat(balanced)
	require.NoError(t, err)
	res := NewEvaluator(nil).Evaluate(b)
	assert.Equal(t, 20.0, res.Features[RowBalance]) // zero variance

	lopsided := emptyCodes()
	// All eight cards in row 0.
	for i, code := range []string{"5C", "7D", "5H", "7S", "6C", "8D", "6H", "8S"} {
		lopsided[i+1] = code
	}
	lb, err := board.LoadFlat(lopsided)
	require.NoError(t, err)
	lres := NewEvaluator(nil).Evaluate(lb)
	assert.Less(t, lres.Features[RowBalance], res.Features[RowBalance])
}

func TestGapQualityFeature(t *testing.T) {
	codes := emptyCodes()
	codes[13+0] = "2D" // row 1 locked run of one; (1,1) gap extends it
	b, err := board.LoadFlat(codes)
	require.NoError(t, err)

	res := NewEvaluator(nil).Evaluate(b)
	// 3 column-0 gaps (+15 each), the (1,1) gap extends a run of one
	// (+5+2), and 47 gap-after-gap cells (-10 each).
	want := 3*15.0 + 7.0 - 47*10.0
	assert.InDelta(t, want, res.Features[GapQuality], 1e-9)
}

func TestMoveAvailabilityCap(t *testing.T) {
	assert.Equal(t, -50.0, moveAvailability(0))
	assert.Equal(t, 5.0, moveAvailability(1))
	assert.Equal(t, 20.0, moveAvailability(4))
	assert.Equal(t, 20.0, moveAvailability(9))
}

func TestCustomWeights(t *testing.T) {
	codes := emptyCodes()
	codes[0], codes[1] = "2C", "3C"
	b, err := board.LoadFlat(codes)
	require.NoError(t, err)

	def := NewEvaluator(nil).Evaluate(b)
	heavy := DefaultWeights()
	heavy[SequenceProgress] = 1000.0
	custom := NewEvaluator(heavy).Evaluate(b)
	assert.Greater(t, custom.Score, def.Score)
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights([]byte("sequence_progress: 250\nking_trap_penalty: -500\n"))
	require.NoError(t, err)
	assert.Equal(t, 250.0, w[SequenceProgress])
	assert.Equal(t, -500.0, w[KingTrapPenalty])
	// Unspecified features keep defaults.
	assert.Equal(t, DefaultWeights()[GapQuality], w[GapQuality])

	_, err = ParseWeights([]byte("no_such_feature: 1\n"))
	assert.Error(t, err)
}
