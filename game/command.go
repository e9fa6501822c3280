// ABOUTME: Command variants accepted by the game actor, one per move operation.
// ABOUTME: Sealed interface so the actor's type switch is exhaustive.
package game

// Command is a request to perform one move operation on a game.
type Command interface {
	commandSeal()
}

// DrawCommand draws one card from the library, recycling the graveyard if needed.
type DrawCommand struct{}

func (DrawCommand) commandSeal() {}

// MoveGraveyardToFoundationCommand moves the graveyard top to a foundation pile.
type MoveGraveyardToFoundationCommand struct {
	Pile int
}

func (MoveGraveyardToFoundationCommand) commandSeal() {}

// MoveGraveyardToBoardCommand moves the graveyard top to a board column.
type MoveGraveyardToBoardCommand struct {
	Column int
}

func (MoveGraveyardToBoardCommand) commandSeal() {}

// MoveBoardToFoundationCommand moves a column top to a foundation pile.
type MoveBoardToFoundationCommand struct {
	Column int
	Pile   int
}

func (MoveBoardToFoundationCommand) commandSeal() {}

// MoveBoardToBoardCommand moves the face-up group starting at CardIndex from
// one column to another.
type MoveBoardToBoardCommand struct {
	From      int
	To        int
	CardIndex int
}

func (MoveBoardToBoardCommand) commandSeal() {}

// announceCreatedCommand asks the actor to broadcast a GameCreated event for
// a fresh deal. It mutates nothing and does not count as a move.
type announceCreatedCommand struct{}

func (announceCreatedCommand) commandSeal() {}
