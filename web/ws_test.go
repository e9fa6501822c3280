// ABOUTME: Tests for the live-watch websocket endpoint.
// ABOUTME: Dials a real httptest server and asserts the snapshot-then-events stream.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/Craz6yDev/MM-207/game"
)

func readWatchMessage(t *testing.T, ctx context.Context, c *websocket.Conn) watchMessage {
	t.Helper()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("websocket read failed: %v", err)
	}
	var msg watchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("bad watch message %q: %v", data, err)
	}
	return msg
}

func TestWatchStreamsSnapshotThenEvents(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + id + "/watch"
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "done")

	// First frame is always the full snapshot.
	msg := readWatchMessage(t, ctx, c)
	if msg.Type != "snapshot" {
		t.Fatalf("first message type = %q, want snapshot", msg.Type)
	}
	if msg.Snapshot == nil || len(msg.Snapshot.Library) != 24 {
		t.Fatalf("snapshot missing or wrong library size: %+v", msg.Snapshot)
	}

	// A draw on the HTTP side shows up as an event frame.
	rec, _ := doJSON(t, srv, http.MethodPost, "/api/games/"+id+"/draw", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("draw status = %d, want 200", rec.Code)
	}

	msg = readWatchMessage(t, ctx, c)
	if msg.Type != "event" {
		t.Fatalf("second message type = %q, want event", msg.Type)
	}
	if _, ok := msg.Event.Payload.(game.CardDrawnPayload); !ok {
		t.Errorf("event payload = %T, want CardDrawnPayload", msg.Event.Payload)
	}
}

func TestWatchUnknownGame(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/games/01HZZZZZZZZZZZZZZZZZZZZZZZ/watch", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
