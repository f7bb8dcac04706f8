// Package card defines the playing-card value type used across the
// analyzer. Gaps solitaire removes the Aces, so ranks run from 2 up to
// the King.
package card

import (
	"fmt"
	"strings"
)

// Rank is a card rank from 2 (Two) through 13 (King). There is no Ace.
type Rank uint8

const (
	MinRank Rank = 2
	Ten     Rank = 10
	Jack    Rank = 11
	Queen   Rank = 12
	King    Rank = 13
	MaxRank Rank = King
)

// Suit indexes the four suits in a fixed enumeration order. Move
// generation relies on this order when several suits qualify.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
	NumSuits = 4
)

var suitLetters = [NumSuits]byte{'C', 'D', 'H', 'S'}

func (s Suit) String() string {
	if int(s) >= NumSuits {
		return "?"
	}
	return string(suitLetters[s])
}

var rankChars = map[Rank]byte{
	10: 'X', 11: 'J', 12: 'Q', 13: 'K',
}

func (r Rank) String() string {
	if c, ok := rankChars[r]; ok {
		return string(c)
	}
	if r >= 2 && r <= 9 {
		return string(byte('0') + byte(r))
	}
	return "?"
}

// Card is an immutable rank/suit pair. It is a comparable value type;
// equality and map keys work by value.
type Card struct {
	Rank Rank
	Suit Suit
}

// String returns the canonical two-character code, e.g. "4C", "XD", "KS".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Succ returns the next-higher card of the same suit, and false if c is
// a King.
func (c Card) Succ() (Card, bool) {
	if c.Rank >= King {
		return Card{}, false
	}
	return Card{Rank: c.Rank + 1, Suit: c.Suit}, true
}

// GapMarker is the canonical code for an empty cell.
const GapMarker = "--"

// IsGapCode reports whether code denotes an empty cell. The interactive
// front end historically accepted a few spellings; the core normalizes
// all of them here.
func IsGapCode(code string) bool {
	switch strings.TrimSpace(strings.ToLower(code)) {
	case "--", "-", "g", "":
		return true
	}
	return false
}

// Parse parses a two-character rank+suit code. Input is
// case-insensitive; 10 is written as X.
func Parse(code string) (Card, error) {
	norm := strings.ToUpper(strings.TrimSpace(code))
	if len(norm) != 2 {
		return Card{}, fmt.Errorf("card code %q: must be two characters", code)
	}
	var rank Rank
	switch ch := norm[0]; {
	case ch >= '2' && ch <= '9':
		rank = Rank(ch - '0')
	case ch == 'X':
		rank = Ten
	case ch == 'J':
		rank = Jack
	case ch == 'Q':
		rank = Queen
	case ch == 'K':
		rank = King
	default:
		return Card{}, fmt.Errorf("card code %q: invalid rank %q", code, string(ch))
	}
	var suit Suit
	switch norm[1] {
	case 'C':
		suit = Clubs
	case 'D':
		suit = Diamonds
	case 'H':
		suit = Hearts
	case 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("card code %q: invalid suit %q", code, string(norm[1]))
	}
	return Card{Rank: rank, Suit: suit}, nil
}
