package protocol

import (
	"encoding/json"

	"github.com/hersh/blockfall/internal/game"
)

// MessageType identifies the kind of message sent over the wire.
type MessageType string

const (
	// Server -> Client messages
	MsgWelcome  MessageType = "welcome"
	MsgSnapshot MessageType = "snapshot"
	MsgEvent    MessageType = "event"
	MsgError    MessageType = "error"

	// Client -> Server messages
	MsgAction  MessageType = "action"
	MsgReset   MessageType = "reset"
	MsgSetName MessageType = "set_name"
)

// Envelope is the top-level wire format for all messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// RawEnvelope is an Envelope whose payload has not been decoded yet.
type RawEnvelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into target.
func (e RawEnvelope) Decode(target interface{}) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}

// --- Server -> Client payloads ---

// WelcomePayload is sent once when a session opens.
type WelcomePayload struct {
	SessionID string `json:"session_id"`
	Seed      uint64 `json:"seed"`
}

// PiecePayload is a piece on the board.
type PiecePayload struct {
	Type     game.PieceType `json:"type"`
	Rotation int            `json:"rotation"`
	X        int            `json:"x"`
	Y        int            `json:"y"`
}

// SnapshotPayload is the full renderable state of a session.
type SnapshotPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Board is a flat row-major array: 0 = empty, piece type + 1 otherwise.
	Board   []int            `json:"board"`
	Active  *PiecePayload    `json:"active,omitempty"`
	GhostY  int              `json:"ghost_y"`
	Hold    *game.PieceType  `json:"hold,omitempty"`
	CanHold bool             `json:"can_hold"`
	Queue   []game.PieceType `json:"queue"`
	Status  string           `json:"status"`
	Score   int              `json:"score"`
	Level   int              `json:"level"`
	Lines   int              `json:"lines"`
	Combo   int              `json:"combo"`
}

// EventPayload mirrors one engine event.
type EventPayload struct {
	Kind     game.EventKind `json:"kind"`
	Distance int            `json:"distance,omitempty"`
	Lines    int            `json:"lines,omitempty"`
	Combo    int            `json:"combo,omitempty"`
}

// ErrorPayload reports a rejected client message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// --- Client -> Server payloads ---

// ActionPayload asks the session to apply one action.
type ActionPayload struct {
	Action game.Action `json:"action"`
}

// ResetPayload restarts the session's game.
type ResetPayload struct{}

// SetNamePayload is sent by a client to update their display name.
type SetNamePayload struct {
	PlayerName string `json:"player_name"`
}

// --- HTTP Request/Response types ---

// SessionInfo describes a session in the list-sessions response.
type SessionInfo struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Level      int    `json:"level"`
	Lines      int    `json:"lines"`
	Alive      bool   `json:"alive"`
}

// ListSessionsResponse is returned by GET /sessions.
type ListSessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
	Count    int           `json:"count"`
	Alive    int           `json:"alive"`
}

// ErrorResponse is a generic JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Conversions ---

func NewSnapshotPayload(s game.Snapshot) SnapshotPayload {
	p := SnapshotPayload{
		Width:   s.Board.Width,
		Height:  s.Board.Height,
		Board:   s.Board.ToFlat(),
		GhostY:  s.GhostY,
		Hold:    s.Hold,
		CanHold: s.CanHold,
		Queue:   s.Queue,
		Status:  s.Status.String(),
		Score:   s.Score,
		Level:   s.Level,
		Lines:   s.Lines,
		Combo:   s.Combo,
	}
	if s.Active != nil {
		p.Active = &PiecePayload{
			Type:     s.Active.Type,
			Rotation: s.Active.Rotation,
			X:        s.Active.X,
			Y:        s.Active.Y,
		}
	}
	return p
}

// Snapshot rebuilds a game.Snapshot for rendering on the client. Unknown
// piece types are dropped.
func (p SnapshotPayload) Snapshot() game.Snapshot {
	s := game.Snapshot{
		Board:   game.BoardFromFlat(p.Board, p.Width, p.Height),
		GhostY:  p.GhostY,
		CanHold: p.CanHold,
		Queue:   make([]game.PieceType, 0, len(p.Queue)),
		Score:   p.Score,
		Level:   p.Level,
		Lines:   p.Lines,
		Combo:   p.Combo,
	}
	switch p.Status {
	case game.StatusPaused.String():
		s.Status = game.StatusPaused
		s.Paused = true
	case game.StatusGameOver.String():
		s.Status = game.StatusGameOver
		s.GameOver = true
	default:
		s.Status = game.StatusRunning
	}
	if p.Hold != nil && p.Hold.Valid() {
		hold := *p.Hold
		s.Hold = &hold
	}
	for _, t := range p.Queue {
		if t.Valid() {
			s.Queue = append(s.Queue, t)
		}
	}
	if p.Active != nil && p.Active.Type.Valid() {
		s.Active = &game.Piece{
			Type:     p.Active.Type,
			Rotation: p.Active.Rotation,
			X:        p.Active.X,
			Y:        p.Active.Y,
		}
	}
	return s
}

func NewEventPayload(ev game.Event) EventPayload {
	return EventPayload{
		Kind:     ev.Kind,
		Distance: ev.Distance,
		Lines:    ev.Lines,
		Combo:    ev.Combo,
	}
}

func (p EventPayload) Event() game.Event {
	return game.Event{
		Kind:     p.Kind,
		Distance: p.Distance,
		Lines:    p.Lines,
		Combo:    p.Combo,
	}
}
