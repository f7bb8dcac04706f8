package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/csnizik/gapbeater/card"
)

// solvedFlat returns a fully solved layout: each row one suit, ranks
// ascending, a gap in the last column.
func solvedFlat() []string {
	codes := make([]string, 0, NumCells)
	for s := card.Suit(0); s < card.NumSuits; s++ {
		for r := card.MinRank; r <= card.MaxRank; r++ {
			codes = append(codes, card.Card{Rank: r, Suit: s}.String())
		}
		codes = append(codes, card.GapMarker)
	}
	return codes
}

func mustLoad(t *testing.T, codes []string) *Board {
	t.Helper()
	b, err := LoadFlat(codes)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestLoadFlatWrongLength(t *testing.T) {
	is := is.New(t)
	_, err := LoadFlat(make([]string, 51))
	var mbe *MalformedBoardError
	is.True(errors.As(err, &mbe))
	is.Equal(mbe.Index, -1)
}

func TestLoadFlatBadCode(t *testing.T) {
	is := is.New(t)
	codes := solvedFlat()
	codes[17] = "AC"
	_, err := LoadFlat(codes)
	var mbe *MalformedBoardError
	is.True(errors.As(err, &mbe))
	is.Equal(mbe.Index, 17)
}

func TestGapsAndCardsPartitionBoard(t *testing.T) {
	is := is.New(t)
	b := Shuffled()
	occupied := 0
	for row := 0; row < NumRows; row++ {
		occupied += b.CardCount(row)
	}
	is.Equal(occupied+len(b.Gaps()), NumCells)
	for _, g := range b.Gaps() {
		_, ok := b.Get(g.Row, g.Col)
		is.True(!ok)
	}
}

func TestLockedRunIsColumnZeroPrefix(t *testing.T) {
	is := is.New(t)
	codes := make([]string, NumCells)
	for i := range codes {
		codes[i] = card.GapMarker
	}
	// Row 0: 2C 3C 4C then a break.
	codes[0], codes[1], codes[2] = "2C", "3C", "4C"
	codes[3] = "9H"
	// Row 1 starts with a non-2: contributes no locked cells.
	codes[13], codes[14] = "5D", "6D"
	// Row 2: 2S then a suit break.
	codes[26], codes[27] = "2S", "3H"
	b := mustLoad(t, codes)

	is.Equal(b.LockedRunLen(0), 3)
	is.Equal(b.LockedRunLen(1), 0)
	is.Equal(b.LockedRunLen(2), 1)
	is.Equal(b.LockedRunLen(3), 0)

	is.True(b.IsLocked(0, 2))
	is.True(!b.IsLocked(0, 3))
	is.True(!b.IsLocked(1, 0))

	is.Equal(len(b.LockedCells()), 4)
	for _, c := range b.LockedCells() {
		is.True(c.Col < b.LockedRunLen(c.Row))
	}
}

func TestLockedCellErrors(t *testing.T) {
	is := is.New(t)
	codes := make([]string, NumCells)
	for i := range codes {
		codes[i] = card.GapMarker
	}
	codes[0], codes[1] = "2C", "3C"
	b := mustLoad(t, codes)

	var lce *LockedCellError
	err := b.Set(0, 1, card.Card{Rank: 9, Suit: card.Hearts})
	is.True(errors.As(err, &lce))
	is.Equal(lce.Col, 1)

	err = b.Clear(0, 0)
	is.True(errors.As(err, &lce))

	// Unlocked cells mutate fine and derived sets follow.
	is.NoErr(b.Set(2, 5, card.Card{Rank: 7, Suit: card.Spades}))
	_, ok := b.Get(2, 5)
	is.True(ok)
	for _, g := range b.Gaps() {
		is.True(g != Coord{Row: 2, Col: 5})
	}
}

func TestIsWinning(t *testing.T) {
	is := is.New(t)
	b := mustLoad(t, solvedFlat())
	is.True(b.IsWinning())

	// Any disturbance breaks the win.
	nb := b.Copy()
	is.NoErr(nb.Set(0, 12, card.Card{Rank: 9, Suit: card.Hearts}))
	is.True(!nb.IsWinning())

	is.True(!New().IsWinning())
}

func TestCopyIndependence(t *testing.T) {
	is := is.New(t)
	b := Shuffled()
	nb := b.Copy()
	is.True(b.Equals(nb))
	is.Equal(b.Hash(), nb.Hash())

	// Mutate a gap cell on the copy; the original keeps its gap.
	g := nb.Gaps()[len(nb.Gaps())-1]
	is.NoErr(nb.Set(g.Row, g.Col, card.Card{Rank: card.King, Suit: card.Clubs}))
	_, ok := nb.Get(g.Row, g.Col)
	is.True(ok)
	_, ok = b.Get(g.Row, g.Col)
	is.True(!ok)
	is.True(!b.Equals(nb))
}

func TestHashDeterministicAndSensitive(t *testing.T) {
	is := is.New(t)
	b := mustLoad(t, solvedFlat())
	is.Equal(b.Hash(), b.Hash())
	is.Equal(b.Hash(), mustLoad(t, solvedFlat()).Hash())

	nb := b.Copy()
	is.NoErr(nb.Set(1, 12, card.Card{Rank: 5, Suit: card.Hearts}))
	is.True(b.Hash() != nb.Hash())
}

func TestAscendingRunLen(t *testing.T) {
	is := is.New(t)
	codes := make([]string, NumCells)
	for i := range codes {
		codes[i] = card.GapMarker
	}
	codes[13+4], codes[13+5], codes[13+6] = "7H", "8H", "9H"
	b := mustLoad(t, codes)
	is.Equal(b.AscendingRunLen(1, 6), 3)
	is.Equal(b.AscendingRunLen(1, 4), 1)
	is.Equal(b.AscendingRunLen(1, 7), 0) // gap
}

func TestFlatRoundTrip(t *testing.T) {
	is := is.New(t)
	b := Shuffled()
	nb := mustLoad(t, b.Flat())
	is.True(b.Equals(nb))
}

func TestFind(t *testing.T) {
	is := is.New(t)
	b := mustLoad(t, solvedFlat())
	pos, ok := b.Find(card.Card{Rank: 5, Suit: card.Diamonds})
	is.True(ok)
	is.Equal(pos, Coord{Row: 1, Col: 3})

	// Aces are not in the deck; an absent card is not found.
	_, ok = New().Find(card.Card{Rank: 5, Suit: card.Diamonds})
	is.True(!ok)
}
