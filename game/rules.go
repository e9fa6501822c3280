// ABOUTME: Pure legality predicates for foundation and board placement.
// ABOUTME: Both derive from the single Ace-low rank ordering defined on Rank.
package game

// CanAddToFoundation reports whether card may be placed on foundation pile
// pileIdx. An empty pile accepts only an Ace; otherwise the card must match
// the top card's suit and be exactly one rank higher.
func (g *Game) CanAddToFoundation(card Card, pileIdx int) bool {
	if pileIdx < 0 || pileIdx >= FoundationPiles {
		return false
	}
	pile := g.Foundation[pileIdx]
	if len(pile) == 0 {
		return card.Rank == Ace
	}
	top := pile[len(pile)-1].Card
	return card.Suit == top.Suit && card.Rank == top.Rank+1
}

// CanAddToBoard reports whether card may be placed on board column colIdx.
// An empty column accepts only a King; otherwise the card must be the
// opposite color of the top card and exactly one rank lower.
func (g *Game) CanAddToBoard(card Card, colIdx int) bool {
	if colIdx < 0 || colIdx >= BoardColumns {
		return false
	}
	column := g.Board[colIdx]
	if len(column) == 0 {
		return card.Rank == King
	}
	top := column[len(column)-1].Card
	return card.Suit.Red() != top.Suit.Red() && card.Rank == top.Rank-1
}
