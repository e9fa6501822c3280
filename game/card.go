// ABOUTME: Typed Rank and Suit enums plus the immutable Card value they compose.
// ABOUTME: Cards marshal as "rank_suit" composite strings on the wire.
package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rank is a card rank. The numeric values define the single canonical
// ordering used by every legality check: Ace low, King high.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = map[Rank]string{
	Ace: "ace", Two: "2", Three: "3", Four: "4", Five: "5", Six: "6",
	Seven: "7", Eight: "8", Nine: "9", Ten: "10",
	Jack: "jack", Queen: "queen", King: "king",
}

// String returns the wire name of the rank ("ace", "2", ..., "king").
func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rank(%d)", int(r))
}

// ParseRank converts a wire name back to a Rank.
func ParseRank(s string) (Rank, error) {
	for r, name := range rankNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank: %q", s)
}

// Suit is a card suit.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists all four suits in deck-generation order.
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = map[Suit]string{
	Hearts: "hearts", Diamonds: "diamonds", Clubs: "clubs", Spades: "spades",
}

// String returns the wire name of the suit.
func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("suit(%d)", int(s))
}

// ParseSuit converts a wire name back to a Suit.
func ParseSuit(s string) (Suit, error) {
	for su, name := range suitNames {
		if name == s {
			return su, nil
		}
	}
	return 0, fmt.Errorf("unknown suit: %q", s)
}

// Red reports whether the suit is red (hearts or diamonds).
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

// Card is an immutable rank/suit pair. Illegal ranks and suits are
// unrepresentable once a Card has passed ParseCard or came from NewDeck.
type Card struct {
	Rank Rank
	Suit Suit
}

// String returns the composite wire identifier, e.g. "ace_hearts" or "10_spades".
func (c Card) String() string {
	return c.Rank.String() + "_" + c.Suit.String()
}

// ParseCard parses a composite "rank_suit" identifier.
func ParseCard(s string) (Card, error) {
	rankStr, suitStr, ok := strings.Cut(s, "_")
	if !ok {
		return Card{}, fmt.Errorf("malformed card identifier: %q", s)
	}
	rank, err := ParseRank(rankStr)
	if err != nil {
		return Card{}, fmt.Errorf("parse card %q: %w", s, err)
	}
	suit, err := ParseSuit(suitStr)
	if err != nil {
		return Card{}, fmt.Errorf("parse card %q: %w", s, err)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MarshalJSON serializes the card as its composite string.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses a card from its composite string form.
func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCard(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PositionedCard is a card plus its face-up flag. This is the unit stored in
// every zone; foundation cards are always face-up.
type PositionedCard struct {
	Card    Card `json:"card"`
	Visible bool `json:"visible"`
}
