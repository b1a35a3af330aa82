package service

import "github.com/Bolkyyy/YDChess/game/session"

// GameService is the orchestration surface exposed to transports.
type GameService interface {
	// CreateGame allocates a fresh waiting session and returns its ID
	// and shareable join URL. The creator still has to join.
	CreateGame() GameCreatedPayload

	// Join seats a connection in a session, white slot before black.
	// On success it sends a private joined acknowledgment, broadcasts a
	// session update, and returns the membership the transport should
	// attach to the connection.
	Join(conn Conn, sessionID, username string) (*ConnContext, error)

	// Move validates and applies a move for the seated player. Legal
	// moves broadcast move_applied, and game_over if the move ends the
	// game.
	Move(conn Conn, ctx *ConnContext, from, to, promotion string) error

	// Chat relays a message from a seated player to the whole session.
	Chat(conn Conn, ctx *ConnContext, message string) error

	// Disconnect vacates the connection's seat. A game in progress is
	// finished as abandoned; a finished session with no players left is
	// removed.
	Disconnect(conn Conn, ctx *ConnContext)

	// GetGame returns a read-model snapshot of one session.
	GetGame(sessionID string) (*GameView, error)

	// ListGames returns snapshots of all live sessions.
	ListGames() []*GameView

	// MoveHistory returns the applied moves of a session, oldest first,
	// plus the PGN of the game so far.
	MoveHistory(sessionID string) ([]session.MoveRecord, string, error)
}
