package rules

import "errors"

// ErrIllegalMove is returned by Engine.Move when the rules engine rejects
// a move against the current position.
var ErrIllegalMove = errors.New("illegal move")

// Color identifies a side of the board.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Reason tags why a game ended.
type Reason string

const (
	ReasonCheckmate Reason = "checkmate"
	ReasonStalemate Reason = "stalemate"
	ReasonDraw      Reason = "draw"
	ReasonUnknown   Reason = "unknown"

	// ReasonAbandoned is set by the session layer when a player leaves
	// mid-game; the engine itself never produces it.
	ReasonAbandoned Reason = "abandoned"
)

// Termination describes a terminal position. Winner is empty for draws.
type Termination struct {
	Winner Color
	Reason Reason
}

// Engine is the rules-engine surface the session core depends on.
// Implementations are not safe for concurrent use; the owning session
// serializes access.
type Engine interface {
	// Move applies from/to (algebraic squares, e.g. "e2" "e4") with an
	// optional promotion piece ("queen", "rook", "bishop", "knight").
	// It returns the applied move in SAN, or ErrIllegalMove.
	Move(from, to, promotion string) (string, error)

	// FEN serializes the current position.
	FEN() string

	// Turn reports the side to move.
	Turn() Color

	// Terminal reports whether the current position ends the game.
	Terminal() (Termination, bool)

	// History returns the applied moves in SAN, oldest first.
	History() []string

	// PGN serializes the full game record.
	PGN() string
}

// Factory constructs a fresh engine at the starting position. The
// registry calls it once per session.
type Factory func() Engine
