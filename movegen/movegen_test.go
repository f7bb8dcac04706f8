package movegen

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/csnizik/gapbeater/board"
	"github.com/csnizik/gapbeater/card"
	"github.com/csnizik/gapbeater/move"
)

func emptyCodes() []string {
	codes := make([]string, board.NumCells)
	for i := range codes {
		codes[i] = card.GapMarker
	}
	return codes
}

func mustLoad(t *testing.T, codes []string) *board.Board {
	t.Helper()
	b, err := board.LoadFlat(codes)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSequenceExtensionMove(t *testing.T) {
	is := is.New(t)
	codes := emptyCodes()
	// Row 0: 2C 3C 4C locked, gap at column 3, 6C beyond it.
	codes[0], codes[1], codes[2] = "2C", "3C", "4C"
	codes[4] = "6C"
	// 5C sits elsewhere, unlocked.
	codes[13+8] = "5C"
	b := mustLoad(t, codes)

	gen := NewGenerator()
	moves := gen.GenAll(b)
	want := move.Move{FromRow: 1, FromCol: 8, ToRow: 0, ToCol: 3,
		Card: card.Card{Rank: 5, Suit: card.Clubs}}
	found := false
	for _, m := range moves {
		if m == want {
			found = true
		}
	}
	is.True(found)

	nb, err := gen.Apply(b, want)
	is.NoErr(err)
	got, ok := nb.Get(0, 3)
	is.True(ok)
	is.Equal(got, want.Card)
	_, ok = nb.Get(1, 8)
	is.True(!ok)
	// Original untouched.
	_, ok = b.Get(0, 3)
	is.True(!ok)
}

func TestKingTrapYieldsNoMove(t *testing.T) {
	is := is.New(t)
	codes := emptyCodes()
	codes[2*13+5] = "KH" // King at (2,5); (2,6) is a gap
	codes[2*13+7] = "8D"
	b := mustLoad(t, codes)

	gen := NewGenerator()
	_, fillable := gen.RequiredCard(b, 2, 6)
	is.True(!fillable)
	for _, m := range gen.GenAll(b) {
		is.True(m.ToRow != 2 || m.ToCol != 6)
	}
}

func TestGapAfterGapUnfillable(t *testing.T) {
	is := is.New(t)
	codes := emptyCodes()
	codes[13] = "7S" // (1,0); (1,1) and (1,2) gaps
	b := mustLoad(t, codes)

	gen := NewGenerator()
	_, fillable := gen.RequiredCard(b, 1, 2)
	is.True(!fillable)
}

func TestColumnZeroPrefersLowestSuit(t *testing.T) {
	is := is.New(t)
	codes := emptyCodes()
	// Row 0 column 0 already holds the 2 of clubs.
	codes[0] = "2C"
	// 2D and 2H both available off column 0.
	codes[13+6] = "2D"
	codes[2*13+4] = "2H"
	b := mustLoad(t, codes)

	gen := NewGenerator()
	required, ok := gen.RequiredCard(b, 1, 0)
	is.True(ok)
	is.Equal(required, card.Card{Rank: 2, Suit: card.Diamonds})
}

// Two simultaneous column-0 gaps may both propose the same source 2.
// The generator does not mark a chosen source consumed within one call;
// this is documented behavior, not a bug to fix silently.
func TestColumnZeroDuplicateProposals(t *testing.T) {
	is := is.New(t)
	codes := emptyCodes()
	// Rows 0 and 1 both have column-0 gaps; only 2S is available.
	codes[5] = "2S"
	codes[2*13] = "9C"
	codes[3*13] = "9D"
	b := mustLoad(t, codes)

	gen := NewGenerator()
	var proposals []move.Move
	for _, m := range gen.GenAll(b) {
		if m.ToCol == 0 {
			proposals = append(proposals, m)
		}
	}
	is.Equal(len(proposals), 2)
	is.Equal(proposals[0].Card, proposals[1].Card)
	is.Equal(proposals[0].FromRow, proposals[1].FromRow)
	is.Equal(proposals[0].FromCol, proposals[1].FromCol)
	is.True(proposals[0].ToRow != proposals[1].ToRow)
}

func TestCountMatchesGenAll(t *testing.T) {
	is := is.New(t)
	gen := NewGenerator()
	for i := 0; i < 25; i++ {
		b := board.Shuffled()
		is.Equal(gen.CountMoves(b), len(gen.GenAll(b)))
	}
}

func TestIsLegalRejectsStaleMoves(t *testing.T) {
	is := is.New(t)
	codes := emptyCodes()
	codes[0], codes[1] = "2C", "3C"
	codes[3] = "5C"
	codes[13+2] = "4C"
	b := mustLoad(t, codes)
	gen := NewGenerator()

	legal := move.Move{FromRow: 1, FromCol: 2, ToRow: 0, ToCol: 2,
		Card: card.Card{Rank: 4, Suit: card.Clubs}}
	is.True(gen.IsLegal(b, legal))

	// Wrong card at source.
	bad := legal
	bad.FromCol = 3
	is.True(!gen.IsLegal(b, bad))

	// Destination not a gap.
	bad = legal
	bad.ToCol = 1
	is.True(!gen.IsLegal(b, bad))

	// Locked source.
	bad = move.Move{FromRow: 0, FromCol: 1, ToRow: 1, ToCol: 5,
		Card: card.Card{Rank: 3, Suit: card.Clubs}}
	is.True(!gen.IsLegal(b, bad))
}

func TestApplyIllegalMove(t *testing.T) {
	is := is.New(t)
	b := mustLoad(t, emptyCodes())
	gen := NewGenerator()
	_, err := gen.Apply(b, move.Move{FromRow: 0, FromCol: 5, ToRow: 1, ToCol: 5,
		Card: card.Card{Rank: 8, Suit: card.Hearts}})
	var ime *IllegalMoveError
	is.True(errors.As(err, &ime))
}

func TestGenAllOnWinningBoard(t *testing.T) {
	is := is.New(t)
	codes := make([]string, 0, board.NumCells)
	for s := card.Suit(0); s < card.NumSuits; s++ {
		for r := card.MinRank; r <= card.MaxRank; r++ {
			codes = append(codes, card.Card{Rank: r, Suit: s}.String())
		}
		codes = append(codes, card.GapMarker)
	}
	b := mustLoad(t, codes)
	is.True(b.IsWinning())
	// Every remaining gap sits to the right of a King.
	is.Equal(len(NewGenerator().GenAll(b)), 0)
}
