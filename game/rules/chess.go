package rules

import (
	"fmt"

	"github.com/notnil/chess"
)

// promoChars maps the wire promotion names to UCI piece characters.
var promoChars = map[string]string{
	"":       "q", // default promotion is queen
	"queen":  "q",
	"rook":   "r",
	"bishop": "b",
	"knight": "n",
}

// chessEngine binds Engine to github.com/notnil/chess.
type chessEngine struct {
	game *chess.Game
}

// NewChessEngine returns an Engine at the standard starting position.
func NewChessEngine() Engine {
	return &chessEngine{game: chess.NewGame()}
}

func (e *chessEngine) Move(from, to, promotion string) (string, error) {
	promo, ok := promoChars[promotion]
	if !ok {
		return "", fmt.Errorf("%w: unknown promotion %q", ErrIllegalMove, promotion)
	}

	pos := e.game.Position()

	// A promotion suffix is only valid on an actual promotion move, so
	// append it only when a pawn is moving onto a back rank.
	uci := from + to
	if isPromotion(pos, from, to) {
		uci += promo
	}

	move, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}

	if err := e.game.Move(move); err != nil {
		return "", fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}

	return chess.AlgebraicNotation{}.Encode(pos, move), nil
}

// isPromotion reports whether from/to describe a pawn of the current
// position reaching the first or eighth rank.
func isPromotion(pos *chess.Position, from, to string) bool {
	if len(from) != 2 || len(to) != 2 {
		return false
	}
	if to[1] != '1' && to[1] != '8' {
		return false
	}
	file := int(from[0] - 'a')
	rank := int(from[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return false
	}
	sq := chess.Square(rank*8 + file)
	return pos.Board().Piece(sq).Type() == chess.Pawn
}

func (e *chessEngine) FEN() string {
	return e.game.Position().String()
}

func (e *chessEngine) Turn() Color {
	if e.game.Position().Turn() == chess.White {
		return White
	}
	return Black
}

func (e *chessEngine) Terminal() (Termination, bool) {
	switch e.game.Outcome() {
	case chess.WhiteWon:
		return Termination{Winner: White, Reason: methodReason(e.game.Method())}, true
	case chess.BlackWon:
		return Termination{Winner: Black, Reason: methodReason(e.game.Method())}, true
	case chess.Draw:
		return Termination{Reason: methodReason(e.game.Method())}, true
	}
	return Termination{}, false
}

func (e *chessEngine) History() []string {
	moves := e.game.Moves()
	positions := e.game.Positions()
	notation := chess.AlgebraicNotation{}

	history := make([]string, 0, len(moves))
	for i, move := range moves {
		history = append(history, notation.Encode(positions[i], move))
	}
	return history
}

func (e *chessEngine) PGN() string {
	return e.game.String()
}

func methodReason(m chess.Method) Reason {
	switch m {
	case chess.Checkmate:
		return ReasonCheckmate
	case chess.Stalemate:
		return ReasonStalemate
	case chess.ThreefoldRepetition, chess.FivefoldRepetition,
		chess.FiftyMoveRule, chess.SeventyFiveMoveRule,
		chess.InsufficientMaterial, chess.DrawOffer:
		return ReasonDraw
	}
	return ReasonUnknown
}
