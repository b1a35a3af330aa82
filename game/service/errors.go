package service

import (
	"errors"

	"github.com/Bolkyyy/YDChess/game/rules"
	"github.com/Bolkyyy/YDChess/game/session"
)

// Error kinds returned by GameService operations. Transports map them to
// private error frames via ErrorCode.
var (
	ErrSessionNotFound  = session.ErrSessionNotFound
	ErrSessionFull      = errors.New("session is full")
	ErrSessionNotActive = errors.New("session is not active")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrIllegalMove      = rules.ErrIllegalMove
	ErrNotAuthorized    = errors.New("not authorized")
)

// ErrorCode maps a service error to the stable code carried in error
// frames. Unrecognized errors collapse to "internal" so internals never
// leak to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrSessionFull):
		return "session_full"
	case errors.Is(err, ErrSessionNotActive):
		return "session_not_active"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	}
	return "internal"
}
