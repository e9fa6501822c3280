// ABOUTME: The Game aggregate: four zones, move counter, status, and the five
// ABOUTME: move operations that mutate them under the rule predicates.
package game

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// BoardColumns is the number of tableau columns.
	BoardColumns = 7
	// FoundationPiles is the number of foundation piles.
	FoundationPiles = 4
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Game is the aggregate root for one solitaire game. All 52 cards are
// distributed across the four zones at all times; operations move cards
// between zones, never create or destroy them.
//
// Game is not safe for concurrent use. The actor in this package serializes
// access per game id.
type Game struct {
	ID         ulid.ULID                          `json:"id"`
	Board      [BoardColumns][]PositionedCard     `json:"board"`
	Foundation [FoundationPiles][]PositionedCard  `json:"foundation"`
	Library    []PositionedCard                   `json:"library"`
	Graveyard  []PositionedCard                   `json:"graveyard"`
	Moves      int                                `json:"moves"`
	StartTime  time.Time                          `json:"startTime"`
	Status     Status                             `json:"status"`
}

// NewGame creates a game and deals the shuffled deck: column i receives i+1
// cards popped from the end of the deck, only the last face-up; the remaining
// 24 cards fill the library face-down.
func NewGame(id ulid.ULID, deck []Card) *Game {
	g := &Game{
		ID:        id,
		Moves:     0,
		StartTime: time.Now().UTC(),
		Status:    StatusActive,
	}

	remaining := make([]Card, len(deck))
	copy(remaining, deck)

	for i := 0; i < BoardColumns; i++ {
		for j := 0; j <= i; j++ {
			card := remaining[len(remaining)-1]
			remaining = remaining[:len(remaining)-1]
			g.Board[i] = append(g.Board[i], PositionedCard{
				Card:    card,
				Visible: j == i,
			})
		}
	}

	g.Library = make([]PositionedCard, 0, len(remaining))
	for _, card := range remaining {
		g.Library = append(g.Library, PositionedCard{Card: card, Visible: false})
	}

	g.Graveyard = []PositionedCard{}
	for i := range g.Foundation {
		g.Foundation[i] = []PositionedCard{}
	}
	return g
}

// DrawFromLibrary flips the top library card onto the graveyard. When the
// library is empty and the graveyard is not, the graveyard is reversed back
// into the library face-down first, then one card is drawn. Returns false
// only when both piles are empty.
func (g *Game) DrawFromLibrary() bool {
	// Explicit recycle-then-draw loop; two passes at most.
	for attempt := 0; attempt < 2; attempt++ {
		if len(g.Library) > 0 {
			card := g.Library[len(g.Library)-1]
			g.Library = g.Library[:len(g.Library)-1]
			card.Visible = true
			g.Graveyard = append(g.Graveyard, card)
			g.Moves++
			return true
		}
		if len(g.Graveyard) == 0 {
			return false
		}
		g.Library = make([]PositionedCard, 0, len(g.Graveyard))
		for i := len(g.Graveyard) - 1; i >= 0; i-- {
			recycled := g.Graveyard[i]
			recycled.Visible = false
			g.Library = append(g.Library, recycled)
		}
		g.Graveyard = []PositionedCard{}
	}
	return false
}

// MoveGraveyardToFoundation moves the graveyard top to foundation pile
// pileIdx if legal. Checks the win condition on success.
func (g *Game) MoveGraveyardToFoundation(pileIdx int) bool {
	if len(g.Graveyard) == 0 {
		return false
	}
	card := g.Graveyard[len(g.Graveyard)-1]
	if !g.CanAddToFoundation(card.Card, pileIdx) {
		return false
	}
	g.Graveyard = g.Graveyard[:len(g.Graveyard)-1]
	g.Foundation[pileIdx] = append(g.Foundation[pileIdx], card)
	g.Moves++
	g.checkWin()
	return true
}

// MoveGraveyardToBoard moves the graveyard top to board column colIdx if legal.
func (g *Game) MoveGraveyardToBoard(colIdx int) bool {
	if len(g.Graveyard) == 0 {
		return false
	}
	card := g.Graveyard[len(g.Graveyard)-1]
	if !g.CanAddToBoard(card.Card, colIdx) {
		return false
	}
	g.Graveyard = g.Graveyard[:len(g.Graveyard)-1]
	g.Board[colIdx] = append(g.Board[colIdx], card)
	g.Moves++
	return true
}

// MoveBoardToFoundation moves the top card of column colIdx to foundation
// pile pileIdx if legal, flipping the newly exposed column top face-up.
// Checks the win condition on success.
func (g *Game) MoveBoardToFoundation(colIdx, pileIdx int) bool {
	if colIdx < 0 || colIdx >= BoardColumns {
		return false
	}
	column := g.Board[colIdx]
	if len(column) == 0 {
		return false
	}
	card := column[len(column)-1]
	if !card.Visible {
		return false
	}
	if !g.CanAddToFoundation(card.Card, pileIdx) {
		return false
	}
	g.Board[colIdx] = column[:len(column)-1]
	g.Foundation[pileIdx] = append(g.Foundation[pileIdx], card)
	g.exposeColumnTop(colIdx)
	g.Moves++
	g.checkWin()
	return true
}

// MoveBoardToBoard moves the face-up group starting at cardIdx in column
// fromIdx onto column toIdx. On failure the source column is left exactly as
// it was; on success the newly exposed source top is flipped face-up.
func (g *Game) MoveBoardToBoard(fromIdx, toIdx, cardIdx int) bool {
	if fromIdx < 0 || fromIdx >= BoardColumns || toIdx < 0 || toIdx >= BoardColumns {
		return false
	}
	from := g.Board[fromIdx]
	if cardIdx < 0 || cardIdx >= len(from) {
		return false
	}
	if !from[cardIdx].Visible {
		return false
	}
	group := from[cardIdx:]
	if !g.CanAddToBoard(group[0].Card, toIdx) {
		return false
	}
	moved := make([]PositionedCard, len(group))
	copy(moved, group)
	g.Board[fromIdx] = from[:cardIdx]
	g.Board[toIdx] = append(g.Board[toIdx], moved...)
	g.exposeColumnTop(fromIdx)
	g.Moves++
	return true
}

// Won reports whether all four foundation piles are complete.
func (g *Game) Won() bool {
	for _, pile := range g.Foundation {
		if len(pile) != 13 {
			return false
		}
	}
	return true
}

// ElapsedTime returns the time since the game started.
func (g *Game) ElapsedTime() time.Duration {
	return time.Since(g.StartTime)
}

// GraveyardTop returns the top graveyard card, or nil when empty.
func (g *Game) GraveyardTop() *PositionedCard {
	if len(g.Graveyard) == 0 {
		return nil
	}
	top := g.Graveyard[len(g.Graveyard)-1]
	return &top
}

// Clone returns a deep copy of the game. Used to hand snapshots across the
// actor boundary without aliasing live zone slices.
func (g *Game) Clone() *Game {
	clone := &Game{
		ID:        g.ID,
		Moves:     g.Moves,
		StartTime: g.StartTime,
		Status:    g.Status,
	}
	for i := range g.Board {
		clone.Board[i] = append([]PositionedCard{}, g.Board[i]...)
	}
	for i := range g.Foundation {
		clone.Foundation[i] = append([]PositionedCard{}, g.Foundation[i]...)
	}
	clone.Library = append([]PositionedCard{}, g.Library...)
	clone.Graveyard = append([]PositionedCard{}, g.Graveyard...)
	return clone
}

// exposeColumnTop flips the top card of a column face-up if it is face-down.
func (g *Game) exposeColumnTop(colIdx int) {
	column := g.Board[colIdx]
	if len(column) == 0 {
		return
	}
	if !column[len(column)-1].Visible {
		column[len(column)-1].Visible = true
	}
}

// checkWin transitions active -> completed when all piles are full. The
// transition is one-way; a completed game never reverts.
func (g *Game) checkWin() {
	if g.Status == StatusActive && g.Won() {
		g.Status = StatusCompleted
	}
}
