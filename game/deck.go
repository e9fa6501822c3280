// ABOUTME: Deck generation and shuffling for the 52-card standard deck.
// ABOUTME: Shuffle is copy-on-write so callers holding the input keep it intact.
package game

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// NewDeck returns the 52 canonical cards in deterministic suit-major,
// rank-minor order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// Shuffle returns a fresh permutation of deck using a Fisher-Yates shuffle
// driven by rng. The input slice is never mutated.
func Shuffle(deck []Card, rng *mrand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// ShuffledDeck generates a new deck and shuffles it with a crypto-seeded rng.
func ShuffledDeck() []Card {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// the zero seed rather than panicking mid-request.
		return Shuffle(NewDeck(), mrand.New(mrand.NewSource(0)))
	}
	src := mrand.NewSource(int64(binary.LittleEndian.Uint64(seed[:])))
	return Shuffle(NewDeck(), mrand.New(src))
}
