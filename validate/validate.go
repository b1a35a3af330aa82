// Package validate checks client-supplied payload fields before they
// reach the game service. It rejects malformed squares, unknown
// promotion pieces, and oversized usernames or chat messages, so the
// service layer only ever sees syntactically well-formed input.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalid is the sentinel wrapped by every validation failure.
var ErrInvalid = errors.New("invalid payload")

const (
	// MaxUsernameLen bounds the display name a player can pick.
	MaxUsernameLen = 32

	// MaxMessageLen bounds a single chat message.
	MaxMessageLen = 500
)

var squareRe = regexp.MustCompile(`^[a-h][1-8]$`)

var promotionPieces = map[string]bool{
	"":       true,
	"queen":  true,
	"rook":   true,
	"bishop": true,
	"knight": true,
}

// Square checks that s names a board square in algebraic form ("e4").
func Square(s string) error {
	if !squareRe.MatchString(s) {
		return fmt.Errorf("%w: %q is not a square", ErrInvalid, s)
	}
	return nil
}

// Promotion checks that s is an allowed promotion piece name. The empty
// string is allowed and means no explicit choice.
func Promotion(s string) error {
	if !promotionPieces[s] {
		return fmt.Errorf("%w: %q is not a promotion piece", ErrInvalid, s)
	}
	return nil
}

// Move checks all fields of a move request.
func Move(from, to, promotion string) error {
	if err := Square(from); err != nil {
		return err
	}
	if err := Square(to); err != nil {
		return err
	}
	if from == to {
		return fmt.Errorf("%w: move must change squares", ErrInvalid)
	}
	return Promotion(promotion)
}

// Username checks a display name. Blank names are allowed; the service
// substitutes a default.
func Username(s string) error {
	if utf8.RuneCountInString(s) > MaxUsernameLen {
		return fmt.Errorf("%w: username exceeds %d characters", ErrInvalid, MaxUsernameLen)
	}
	return nil
}

// ChatMessage checks a chat message body.
func ChatMessage(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty chat message", ErrInvalid)
	}
	if utf8.RuneCountInString(s) > MaxMessageLen {
		return fmt.Errorf("%w: chat message exceeds %d characters", ErrInvalid, MaxMessageLen)
	}
	return nil
}
