// ABOUTME: Parses table commands typed into the TUI input line.
// ABOUTME: Move commands map onto game commands; indexes are validated before dispatch.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Craz6yDev/MM-207/game"
)

// ParseMoveCommand turns a typed command into a game command.
//
//	d                draw from the library
//	gf <pile>        graveyard to foundation pile 0-3
//	gb <col>         graveyard to board column 0-6
//	bf <col> <pile>  board column to foundation pile
//	bb <from> <to> <card>  move the stack starting at card index between columns
func ParseMoveCommand(input string) (game.Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "d", "draw":
		if len(fields) != 1 {
			return nil, fmt.Errorf("draw takes no arguments")
		}
		return game.DrawCommand{}, nil

	case "gf":
		if len(fields) > 2 {
			return nil, fmt.Errorf("gf takes one argument")
		}
		pile, err := parseIndex(fields, 1, game.FoundationPiles-1, "foundation pile")
		if err != nil {
			return nil, err
		}
		return game.MoveGraveyardToFoundationCommand{Pile: pile}, nil

	case "gb":
		if len(fields) > 2 {
			return nil, fmt.Errorf("gb takes one argument")
		}
		col, err := parseIndex(fields, 1, game.BoardColumns-1, "board column")
		if err != nil {
			return nil, err
		}
		return game.MoveGraveyardToBoardCommand{Column: col}, nil

	case "bf":
		if len(fields) > 3 {
			return nil, fmt.Errorf("bf takes two arguments")
		}
		col, err := parseIndex(fields, 1, game.BoardColumns-1, "board column")
		if err != nil {
			return nil, err
		}
		pile, err := parseIndex(fields, 2, game.FoundationPiles-1, "foundation pile")
		if err != nil {
			return nil, err
		}
		return game.MoveBoardToFoundationCommand{Column: col, Pile: pile}, nil

	case "bb":
		if len(fields) > 4 {
			return nil, fmt.Errorf("bb takes three arguments")
		}
		from, err := parseIndex(fields, 1, game.BoardColumns-1, "source column")
		if err != nil {
			return nil, err
		}
		to, err := parseIndex(fields, 2, game.BoardColumns-1, "target column")
		if err != nil {
			return nil, err
		}
		cardIdx, err := parseIndex(fields, 3, -1, "card index")
		if err != nil {
			return nil, err
		}
		return game.MoveBoardToBoardCommand{From: from, To: to, CardIndex: cardIdx}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

// parseIndex reads fields[pos] as a bounded non-negative integer.
// Pass max < 0 to skip the upper bound.
func parseIndex(fields []string, pos, max int, what string) (int, error) {
	if pos >= len(fields) {
		return 0, fmt.Errorf("missing %s", what)
	}
	n, err := strconv.Atoi(fields[pos])
	if err != nil || n < 0 || (max >= 0 && n > max) {
		if max >= 0 {
			return 0, fmt.Errorf("%s must be 0-%d", what, max)
		}
		return 0, fmt.Errorf("%s must be a non-negative number", what)
	}
	return n, nil
}
