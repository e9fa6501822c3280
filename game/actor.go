// ABOUTME: Goroutine-based actor serializing move commands against one game.
// ABOUTME: Provides Handle for sending commands, subscribing to events, and reading state.
package game

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventBroadcaster fans events out to multiple subscribers. Each subscriber
// gets a buffered channel; Broadcast is non-blocking and drops when full.
type EventBroadcaster struct {
	mu          sync.RWMutex
	subscribers []chan Event
	closed      bool
}

// NewEventBroadcaster creates a broadcaster with no initial subscribers.
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{}
}

// Subscribe creates a new buffered channel for receiving broadcast events.
// After CloseAll the returned channel is already closed.
func (b *EventBroadcaster) Subscribe() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, 256)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a channel from the subscriber list and closes it.
func (b *EventBroadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// CloseAll closes every subscriber channel so receivers see the stream end.
// Later Subscribe calls return an already-closed channel.
func (b *EventBroadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}

// Broadcast sends an event to all subscribers, dropping when a buffer is full.
func (b *EventBroadcaster) Broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Drop if subscriber buffer is full
		}
	}
}

// MoveResult is the outcome of one command. Moved is false for illegal moves;
// Events carries what actually happened for persistence and watchers.
type MoveResult struct {
	Moved  bool
	Events []Event
}

// commandMessage pairs a Command with a reply channel for the result.
type commandMessage struct {
	cmd   Command
	reply chan commandResult
}

// commandResult is the result of processing a command.
type commandResult struct {
	result MoveResult
	err    error
}

// Handle is the public interface for interacting with a game actor.
// It is safe for concurrent use.
type Handle struct {
	cmdCh       chan commandMessage
	broadcaster *EventBroadcaster
	game        *Game
	mu          sync.RWMutex // protects game
	stopOnce    sync.Once
	stopped     chan struct{}
	GameID      ulid.ULID
}

// SendCommand sends a command to the actor and waits for the result.
func (h *Handle) SendCommand(cmd Command) (MoveResult, error) {
	reply := make(chan commandResult, 1)
	msg := commandMessage{cmd: cmd, reply: reply}

	select {
	case <-h.stopped:
		return MoveResult{}, ErrActorStopped
	case h.cmdCh <- msg:
	default:
		return MoveResult{}, ErrActorBusy
	}

	select {
	case result := <-reply:
		return result.result, result.err
	case <-h.stopped:
		return MoveResult{}, ErrActorStopped
	}
}

// Subscribe returns a channel that receives broadcast events.
func (h *Handle) Subscribe() chan Event {
	return h.broadcaster.Subscribe()
}

// Unsubscribe removes a channel from the broadcast list and closes it.
func (h *Handle) Unsubscribe(ch chan Event) {
	h.broadcaster.Unsubscribe(ch)
}

// AnnounceCreated has the actor broadcast a GameCreated event for a fresh
// deal. Call it once, right after spawning the actor for a new game.
func (h *Handle) AnnounceCreated() (Event, error) {
	result, err := h.SendCommand(announceCreatedCommand{})
	if err != nil {
		return Event{}, err
	}
	return result.Events[0], nil
}

// ReadState calls fn with a read lock on the current game. The function must
// not mutate the game or hold references after returning.
func (h *Handle) ReadState(fn func(g *Game)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn(h.game)
}

// Snapshot returns a deep copy of the current game state.
func (h *Handle) Snapshot() *Game {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.game.Clone()
}

// Stop halts the actor goroutine and ends every subscriber's event stream.
// Later SendCommand calls fail with ErrActorStopped; callers already waiting
// on a reply are released.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopped)
		h.broadcaster.CloseAll()
	})
}

// SpawnActor starts a goroutine owning the given game and returns its handle.
func SpawnActor(g *Game) *Handle {
	cmdCh := make(chan commandMessage, 64)

	handle := &Handle{
		cmdCh:       cmdCh,
		broadcaster: NewEventBroadcaster(),
		game:        g,
		stopped:     make(chan struct{}),
		GameID:      g.ID,
	}

	actor := &gameActor{
		handle:      handle,
		cmdCh:       cmdCh,
		nextEventID: 1,
	}

	go actor.run()

	return handle
}

// gameActor is the internal goroutine that processes commands sequentially.
type gameActor struct {
	handle      *Handle
	cmdCh       chan commandMessage
	nextEventID uint64
}

func (a *gameActor) run() {
	for {
		select {
		case msg := <-a.cmdCh:
			result := a.processCommand(msg.cmd)
			msg.reply <- result
		case <-a.handle.stopped:
			return
		}
	}
}

// processCommand applies one move under the write lock and broadcasts the
// resulting events. Illegal moves return Moved=false with no events and no
// state change.
func (a *gameActor) processCommand(cmd Command) commandResult {
	a.handle.mu.Lock()
	g := a.handle.game
	wonBefore := g.Status == StatusCompleted

	var moved bool
	var payloads []EventPayload

	switch c := cmd.(type) {
	case announceCreatedCommand:
		payloads = append(payloads, GameCreatedPayload{LibraryCount: len(g.Library)})

	case DrawCommand:
		libraryBefore := len(g.Library)
		graveyardBefore := len(g.Graveyard)
		moved = g.DrawFromLibrary()
		if moved {
			if libraryBefore == 0 && graveyardBefore > 0 {
				payloads = append(payloads, LibraryRecycledPayload{Count: graveyardBefore})
			}
			payloads = append(payloads, CardDrawnPayload{Card: g.Graveyard[len(g.Graveyard)-1].Card})
		}

	case MoveGraveyardToFoundationCommand:
		var card Card
		if top := g.GraveyardTop(); top != nil {
			card = top.Card
		}
		moved = g.MoveGraveyardToFoundation(c.Pile)
		if moved {
			payloads = append(payloads, CardMovedPayload{
				Card: card, From: ZoneGraveyard, To: ZoneFoundation, ToIndex: c.Pile, Count: 1,
			})
		}

	case MoveGraveyardToBoardCommand:
		var card Card
		if top := g.GraveyardTop(); top != nil {
			card = top.Card
		}
		moved = g.MoveGraveyardToBoard(c.Column)
		if moved {
			payloads = append(payloads, CardMovedPayload{
				Card: card, From: ZoneGraveyard, To: ZoneBoard, ToIndex: c.Column, Count: 1,
			})
		}

	case MoveBoardToFoundationCommand:
		var card Card
		if c.Column >= 0 && c.Column < BoardColumns && len(g.Board[c.Column]) > 0 {
			card = g.Board[c.Column][len(g.Board[c.Column])-1].Card
		}
		moved = g.MoveBoardToFoundation(c.Column, c.Pile)
		if moved {
			payloads = append(payloads, CardMovedPayload{
				Card: card, From: ZoneBoard, FromIndex: c.Column,
				To: ZoneFoundation, ToIndex: c.Pile, Count: 1,
			})
		}

	case MoveBoardToBoardCommand:
		var card Card
		var count int
		if c.From >= 0 && c.From < BoardColumns &&
			c.CardIndex >= 0 && c.CardIndex < len(g.Board[c.From]) {
			card = g.Board[c.From][c.CardIndex].Card
			count = len(g.Board[c.From]) - c.CardIndex
		}
		moved = g.MoveBoardToBoard(c.From, c.To, c.CardIndex)
		if moved {
			payloads = append(payloads, CardMovedPayload{
				Card: card, From: ZoneBoard, FromIndex: c.From,
				To: ZoneBoard, ToIndex: c.To, Count: count,
			})
		}

	default:
		a.handle.mu.Unlock()
		return commandResult{err: ErrUnknownCommand}
	}

	if moved && !wonBefore && g.Status == StatusCompleted {
		payloads = append(payloads, GameWonPayload{Moves: g.Moves})
	}

	now := time.Now().UTC()
	events := make([]Event, len(payloads))
	for i, payload := range payloads {
		events[i] = Event{
			EventID:   a.nextEventID,
			GameID:    a.handle.GameID,
			Timestamp: now,
			Payload:   payload,
		}
		a.nextEventID++
	}
	a.handle.mu.Unlock()

	for _, event := range events {
		a.handle.broadcaster.Broadcast(event)
	}

	return commandResult{result: MoveResult{Moved: moved, Events: events}}
}
