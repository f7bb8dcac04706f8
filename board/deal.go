package board

import (
	"lukechampine.com/frand"

	"github.com/csnizik/gapbeater/card"
)

// Deck returns the 48 cell codes of an Ace-less deck plus the four gap
// markers left behind by the removed Aces, in a fixed order.
func Deck() []string {
	codes := make([]string, 0, NumCells)
	for r := card.MinRank; r <= card.MaxRank; r++ {
		for s := card.Suit(0); s < card.NumSuits; s++ {
			codes = append(codes, card.Card{Rank: r, Suit: s}.String())
		}
	}
	for i := 0; i < NumRows; i++ {
		codes = append(codes, card.GapMarker)
	}
	return codes
}

// Shuffled deals a uniformly random layout. Used by tests and the
// random-deals mode; analysis itself is deterministic.
func Shuffled() *Board {
	codes := Deck()
	frand.Shuffle(len(codes), func(i, j int) {
		codes[i], codes[j] = codes[j], codes[i]
	})
	b, err := LoadFlat(codes)
	if err != nil {
		// Deck always produces a loadable layout.
		panic(err)
	}
	return b
}
