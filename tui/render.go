// ABOUTME: Renders the solitaire table: foundations, library, graveyard, and the seven columns.
// ABOUTME: Pure string rendering over a game snapshot; no model state involved.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Craz6yDev/MM-207/game"
)

var suitSymbols = map[game.Suit]string{
	game.Hearts:   "♥",
	game.Diamonds: "♦",
	game.Clubs:    "♣",
	game.Spades:   "♠",
}

var rankSymbols = map[game.Rank]string{
	game.Ace:   "A",
	game.Jack:  "J",
	game.Queen: "Q",
	game.King:  "K",
}

// cardLabel renders a card face like "Q♥" or "10♠".
func cardLabel(c game.Card) string {
	rank, ok := rankSymbols[c.Rank]
	if !ok {
		rank = fmt.Sprintf("%d", int(c.Rank))
	}
	return rank + suitSymbols[c.Suit]
}

// cell renders one positioned card padded to a fixed cell width.
func cell(pc game.PositionedCard) string {
	if !pc.Visible {
		return FaceDownStyle.Render(pad("▒▒"))
	}
	return styleForCard(pc.Card).Render(pad(cardLabel(pc.Card)))
}

func pad(s string) string {
	// Suit symbols are single-width runes; pad by rune count.
	for len([]rune(s)) < 4 {
		s += " "
	}
	return s
}

// renderTable paints the full table for a snapshot.
func renderTable(g *game.Game) string {
	var b strings.Builder

	// Top row: library, graveyard, foundations.
	b.WriteString(LabelStyle.Render("library "))
	b.WriteString(pad(fmt.Sprintf("%d", len(g.Library))))
	b.WriteString(LabelStyle.Render("  graveyard "))
	if top := g.GraveyardTop(); top != nil {
		b.WriteString(cell(*top))
	} else {
		b.WriteString(EmptySlotStyle.Render(pad("--")))
	}
	b.WriteString(LabelStyle.Render("  foundations "))
	for i, pile := range g.Foundation {
		if len(pile) == 0 {
			b.WriteString(EmptySlotStyle.Render(pad(fmt.Sprintf("%d:--", i))))
		} else {
			top := pile[len(pile)-1]
			b.WriteString(styleForCard(top.Card).Render(pad(fmt.Sprintf("%d:%s", i, cardLabel(top.Card)))))
		}
	}
	b.WriteString("\n\n")

	// Column headers.
	for i := 0; i < game.BoardColumns; i++ {
		b.WriteString(HeaderStyle.Render(pad(fmt.Sprintf("%d", i))))
	}
	b.WriteString("\n")

	// Columns rendered row by row down to the tallest column.
	maxLen := 0
	for _, column := range g.Board {
		if len(column) > maxLen {
			maxLen = len(column)
		}
	}
	for row := 0; row < maxLen; row++ {
		for _, column := range g.Board {
			if row < len(column) {
				b.WriteString(cell(column[row]))
			} else {
				b.WriteString(pad(""))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderStatusBar paints the bottom status line.
func renderStatusBar(g *game.Game, width int) string {
	status := fmt.Sprintf("moves %d  elapsed %s  status %s",
		g.Moves, g.ElapsedTime().Round(time.Second), g.Status)
	bar := StatusBarStyle.Render(status)
	if width > lipgloss.Width(bar) {
		bar = StatusBarStyle.Width(width).Render(status)
	}
	return bar
}
