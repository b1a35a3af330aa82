package service

import (
	"time"

	"github.com/Bolkyyy/YDChess/game/rules"
	"github.com/Bolkyyy/YDChess/game/session"
)

// Event names carried in the "event" field of every frame.
const (
	EventGameCreated   = "game_created"
	EventJoined        = "joined"
	EventSessionUpdate = "session_update"
	EventMoveApplied   = "move_applied"
	EventGameOver      = "game_over"
	EventChatMessage   = "chat_message"
	EventPlayerLeft    = "player_left"
	EventError         = "error"
)

// Conn is one client connection as the service sees it. Send must not
// block the caller; the WebSocket transport backs it with a buffered
// per-connection channel.
type Conn interface {
	ID() string
	Send(event string, payload any)
}

// Broadcaster fans events out to every connection joined to a session.
// The service calls Broadcast while holding the session lock, so members
// observe a single total order of events per session.
type Broadcaster interface {
	Join(sessionID string, conn Conn)
	Leave(sessionID string, conn Conn)
	Broadcast(sessionID string, event string, payload any)
}

// ConnContext is the session membership a transport holds for a
// connection after a successful join. The service re-checks it against
// the seated ConnID on every call, so a stale context cannot act on a
// slot it no longer owns.
type ConnContext struct {
	SessionID string
	Color     rules.Color
	Username  string
}

// GameCreatedPayload acknowledges session creation to the creator.
type GameCreatedPayload struct {
	SessionID string `json:"sessionId"`
	JoinURL   string `json:"joinUrl"`
}

// JoinedPayload is the private acknowledgment for a successful join. It
// carries enough state for a client joining mid-game to render the
// board.
type JoinedPayload struct {
	SessionID string                `json:"sessionId"`
	Color     rules.Color           `json:"color"`
	Position  string                `json:"position"`
	Turn      rules.Color           `json:"turn"`
	Status    session.Status        `json:"status"`
	Moves     []session.MoveRecord  `json:"moves"`
	Players   map[rules.Color]string `json:"players"`
}

// SessionUpdatePayload is broadcast whenever membership or lifecycle
// state changes.
type SessionUpdatePayload struct {
	Players map[rules.Color]string `json:"players"`
	Status  session.Status         `json:"status"`
	Turn    rules.Color            `json:"turn"`
}

// MoveAppliedPayload is broadcast after a legal move.
type MoveAppliedPayload struct {
	From       string      `json:"from"`
	To         string      `json:"to"`
	Promotion  string      `json:"promotion,omitempty"`
	Move       string      `json:"move"`
	Position   string      `json:"position"`
	Turn       rules.Color `json:"turn"`
	MoverColor rules.Color `json:"moverColor"`
}

// GameOverPayload is broadcast when a session finishes.
type GameOverPayload struct {
	Result session.Result `json:"result"`
	Reason rules.Reason   `json:"reason"`
	Winner rules.Color    `json:"winner,omitempty"`
	PGN    string         `json:"pgn,omitempty"`
}

// ChatMessagePayload is broadcast for every relayed chat message.
type ChatMessagePayload struct {
	SenderColor rules.Color `json:"senderColor"`
	Username    string      `json:"username"`
	Message     string      `json:"message"`
	Timestamp   time.Time   `json:"timestamp"`
}

// PlayerLeftPayload is broadcast when a seat is vacated.
type PlayerLeftPayload struct {
	Color rules.Color `json:"color"`
}

// ErrorPayload is sent privately to the connection whose request failed.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameView is the read-model snapshot served over REST and MCP.
type GameView struct {
	SessionID string                 `json:"sessionId"`
	Status    session.Status         `json:"status"`
	Players   map[rules.Color]string `json:"players"`
	Turn      rules.Color            `json:"turn"`
	Position  string                 `json:"position"`
	MoveCount int                    `json:"moveCount"`
	Result    session.Result         `json:"result,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
