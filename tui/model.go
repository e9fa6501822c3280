// ABOUTME: Top-level Bubble Tea model for local solitaire play.
// ABOUTME: Routes typed commands to the game actor and paints the table after every event.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Craz6yDev/MM-207/game"
)

// Model is the Bubble Tea model for a local game session.
type Model struct {
	handle  *game.Handle
	input   textinput.Model
	message string
	isError bool
	width   int
	height  int
}

// NewModel deals a fresh shuffled game and spawns its actor.
func NewModel() Model {
	input := textinput.New()
	input.Placeholder = "d, gf 0, gb 3, bf 2 0, bb 4 1 2, new, quit"
	input.Prompt = "> "
	input.CharLimit = 32
	input.Focus()

	g := game.NewGame(game.NewULID(), game.ShuffledDeck())
	return Model{
		handle:  game.SpawnActor(g),
		input:   input,
		message: "new game dealt",
	}
}

// Handle exposes the running actor, mainly for tests.
func (m Model) Handle() *game.Handle {
	return m.handle
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.handle.Stop()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleCommand(strings.TrimSpace(m.input.Value()))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleCommand runs one typed command and records the feedback line.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.input.Reset()
	if input == "" {
		return m, nil
	}

	switch strings.ToLower(input) {
	case "q", "quit", "exit":
		m.handle.Stop()
		return m, tea.Quit
	case "n", "new":
		m.handle.Stop()
		m.handle = game.SpawnActor(game.NewGame(game.NewULID(), game.ShuffledDeck()))
		m.message, m.isError = "new game dealt", false
		return m, nil
	case "h", "help":
		m.message, m.isError = "d=draw  gf <pile>  gb <col>  bf <col> <pile>  bb <from> <to> <card>  new  quit", false
		return m, nil
	}

	cmd, err := ParseMoveCommand(input)
	if err != nil {
		m.message, m.isError = err.Error(), true
		return m, nil
	}

	result, err := m.handle.SendCommand(cmd)
	if err != nil {
		m.message, m.isError = err.Error(), true
		return m, nil
	}
	if !result.Moved {
		m.message, m.isError = "illegal move", true
		return m, nil
	}

	m.message, m.isError = describeEvents(result.Events), false
	return m, nil
}

// describeEvents builds the feedback line from the applied events.
func describeEvents(events []game.Event) string {
	parts := make([]string, 0, len(events))
	for _, evt := range events {
		switch p := evt.Payload.(type) {
		case game.CardDrawnPayload:
			parts = append(parts, fmt.Sprintf("drew %s", cardLabel(p.Card)))
		case game.LibraryRecycledPayload:
			parts = append(parts, fmt.Sprintf("recycled %d cards", p.Count))
		case game.CardMovedPayload:
			if p.Count > 1 {
				parts = append(parts, fmt.Sprintf("moved %d cards to %s %d", p.Count, p.To, p.ToIndex))
			} else {
				parts = append(parts, fmt.Sprintf("moved %s to %s %d", cardLabel(p.Card), p.To, p.ToIndex))
			}
		case game.GameWonPayload:
			parts = append(parts, fmt.Sprintf("won in %d moves!", p.Moves))
		}
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, ", ")
}

// View implements tea.Model.
func (m Model) View() string {
	g := m.handle.Snapshot()

	var b strings.Builder
	b.WriteString(TitleStyle.Render("solitaire"))
	b.WriteString("\n\n")
	b.WriteString(renderTable(g))
	b.WriteString("\n")

	if g.Won() {
		b.WriteString(WinBannerStyle.Render(fmt.Sprintf("You won in %d moves!", g.Moves)))
		b.WriteString("\n")
	}

	if m.message != "" {
		style := InfoStyle
		if m.isError {
			style = ErrorStyle
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(renderStatusBar(g, m.width))
	return b.String()
}
