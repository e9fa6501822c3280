// ABOUTME: Event is the envelope for game mutations, wrapping EventPayload variants.
// ABOUTME: Tagged union JSON serialization via a "type" discriminator field.
package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event is the immutable envelope for one applied game mutation.
type Event struct {
	EventID   uint64       `json:"event_id"`
	GameID    ulid.ULID    `json:"game_id"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   EventPayload `json:"-"` // Custom marshal/unmarshal
}

// eventJSON is the wire format for Event.
type eventJSON struct {
	EventID   uint64          `json:"event_id"`
	GameID    ulid.ULID       `json:"game_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalJSON serializes the Event with its payload inlined.
func (e Event) MarshalJSON() ([]byte, error) {
	payloadJSON, err := MarshalEventPayload(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	j := eventJSON{
		EventID:   e.EventID,
		GameID:    e.GameID,
		Timestamp: e.Timestamp,
		Payload:   payloadJSON,
	}
	return json.Marshal(j)
}

// UnmarshalJSON deserializes the Event with its payload.
func (e *Event) UnmarshalJSON(data []byte) error {
	var j eventJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	payload, err := UnmarshalEventPayload(j.Payload)
	if err != nil {
		return fmt.Errorf("unmarshal event payload: %w", err)
	}
	e.EventID = j.EventID
	e.GameID = j.GameID
	e.Timestamp = j.Timestamp
	e.Payload = payload
	return nil
}

// Zone names a card zone in a move event.
type Zone string

const (
	ZoneLibrary    Zone = "library"
	ZoneGraveyard  Zone = "graveyard"
	ZoneBoard      Zone = "board"
	ZoneFoundation Zone = "foundation"
)

// EventPayload is a tagged union over the game event variants.
type EventPayload interface {
	EventPayloadType() string
	eventPayloadSeal()
}

// GameCreatedPayload indicates a new game was dealt.
type GameCreatedPayload struct {
	LibraryCount int `json:"library_count"`
}

func (p GameCreatedPayload) EventPayloadType() string { return "GameCreated" }
func (p GameCreatedPayload) eventPayloadSeal()        {}

// CardDrawnPayload indicates a card was flipped from the library onto the graveyard.
type CardDrawnPayload struct {
	Card Card `json:"card"`
}

func (p CardDrawnPayload) EventPayloadType() string { return "CardDrawn" }
func (p CardDrawnPayload) eventPayloadSeal()        {}

// LibraryRecycledPayload indicates the graveyard was turned back into the library.
type LibraryRecycledPayload struct {
	Count int `json:"count"`
}

func (p LibraryRecycledPayload) EventPayloadType() string { return "LibraryRecycled" }
func (p LibraryRecycledPayload) eventPayloadSeal()        {}

// CardMovedPayload indicates one or more cards moved between zones.
// Count is 1 except for board-to-board group moves.
type CardMovedPayload struct {
	Card      Card `json:"card"`
	From      Zone `json:"from"`
	FromIndex int  `json:"from_index"`
	To        Zone `json:"to"`
	ToIndex   int  `json:"to_index"`
	Count     int  `json:"count"`
}

func (p CardMovedPayload) EventPayloadType() string { return "CardMoved" }
func (p CardMovedPayload) eventPayloadSeal()        {}

// GameWonPayload indicates all four foundation piles reached thirteen cards.
type GameWonPayload struct {
	Moves int `json:"moves"`
}

func (p GameWonPayload) EventPayloadType() string { return "GameWon" }
func (p GameWonPayload) eventPayloadSeal()        {}

// MarshalEventPayload serializes an EventPayload with a "type" discriminator.
func MarshalEventPayload(p EventPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot marshal nil event payload")
	}
	return marshalTagged(p.EventPayloadType(), p)
}

// UnmarshalEventPayload deserializes an EventPayload from its tagged JSON form.
func UnmarshalEventPayload(data []byte) (EventPayload, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal event payload type: %w", err)
	}

	switch envelope.Type {
	case "GameCreated":
		var p GameCreatedPayload
		return p, json.Unmarshal(data, &p)
	case "CardDrawn":
		var p CardDrawnPayload
		return p, json.Unmarshal(data, &p)
	case "LibraryRecycled":
		var p LibraryRecycledPayload
		return p, json.Unmarshal(data, &p)
	case "CardMoved":
		var p CardMovedPayload
		return p, json.Unmarshal(data, &p)
	case "GameWon":
		var p GameWonPayload
		return p, json.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("unknown event payload type: %q", envelope.Type)
	}
}

// marshalTagged marshals a payload struct and injects the "type" field.
func marshalTagged(typeName string, p EventPayload) ([]byte, error) {
	inner, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(inner, &m); err != nil {
		return nil, err
	}
	m["type"] = json.RawMessage(fmt.Sprintf("%q", typeName))
	return json.Marshal(m)
}
