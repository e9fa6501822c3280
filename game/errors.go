// ABOUTME: Sentinel and typed errors for the game actor and registry.
// ABOUTME: Illegal moves are boolean results, never errors; these cover the rest.
package game

import (
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrActorBusy indicates the actor's command buffer is full.
	ErrActorBusy = errors.New("actor command buffer full")

	// ErrActorStopped indicates the actor has been halted and accepts no commands.
	ErrActorStopped = errors.New("actor stopped")

	// ErrUnknownCommand indicates the command type is not recognized by the actor.
	ErrUnknownCommand = errors.New("unknown command type")
)

// NotFoundError indicates the referenced game id has no known state.
type NotFoundError struct {
	GameID ulid.ULID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("game not found: %s", e.GameID)
}
