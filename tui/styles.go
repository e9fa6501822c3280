// ABOUTME: Defines lipgloss style constants for the table layout, card colors, and status bar.
// ABOUTME: Provides styleForCard to pick the red or black face style for a card.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Craz6yDev/MM-207/game"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Card faces
	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	FaceDownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	EmptySlotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	// Column headers and labels
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Feedback line
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// Win banner
	WinBannerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Padding(1, 4)
)

// styleForCard picks the face style matching the card's color.
func styleForCard(c game.Card) lipgloss.Style {
	if c.Suit.Red() {
		return RedCardStyle
	}
	return BlackCardStyle
}
