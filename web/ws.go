// ABOUTME: Live-watch websocket endpoint streaming game events to spectators.
// ABOUTME: Sends a full snapshot on connect, then every event the actor broadcasts.
package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/Craz6yDev/MM-207/game"
)

// watchMessage is the envelope pushed to watch clients.
type watchMessage struct {
	Type     string      `json:"type"` // "snapshot" or "event"
	Snapshot *game.Game  `json:"snapshot,omitempty"`
	Event    *game.Event `json:"event,omitempty"`
}

// handleWatchGame upgrades to a websocket and relays the game's event stream.
// The connection closes when the client goes away or the actor stops.
func (s *Server) handleWatchGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	handle, err := s.registry.Get(id)
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("component=web action=ws_accept game=%s error=%v", id, err)
		return
	}
	defer func() { _ = c.Close(websocket.StatusNormalClosure, "bye") }()

	events := handle.Subscribe()
	defer handle.Unsubscribe(events)

	ctx := r.Context()
	if err := writeWatchMessage(ctx, c, watchMessage{Type: "snapshot", Snapshot: handle.Snapshot()}); err != nil {
		return
	}

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			s.registry.Touch(id)
			if err := c.Ping(ctx); err != nil {
				return
			}
		case evt, ok := <-events:
			if !ok {
				// Actor stopped; tell the client and end the stream.
				_ = c.Close(websocket.StatusGoingAway, "game unloaded")
				return
			}
			if err := writeWatchMessage(ctx, c, watchMessage{Type: "event", Event: &evt}); err != nil {
				return
			}
		}
	}
}

func writeWatchMessage(ctx context.Context, c *websocket.Conn, msg watchMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.Write(writeCtx, websocket.MessageText, data)
}
