package session

import (
	"sync"
	"time"

	"github.com/Bolkyyy/YDChess/game/rules"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Result is the outcome of a finished session.
type Result string

const (
	ResultWhiteWins Result = "white_wins"
	ResultBlackWins Result = "black_wins"
	ResultDraw      Result = "draw"
	ResultAbandoned Result = "abandoned"
)

// ResultForWinner maps a winning color to its result.
func ResultForWinner(c rules.Color) Result {
	if c == rules.White {
		return ResultWhiteWins
	}
	return ResultBlackWins
}

// Player is an occupied color slot.
type Player struct {
	ConnID   string `json:"-"`
	Username string `json:"username"`
}

// MoveRecord is one applied move in the session's history.
type MoveRecord struct {
	From      string      `json:"from"`
	To        string      `json:"to"`
	Promotion string      `json:"promotion,omitempty"`
	SAN       string      `json:"san"`
	Color     rules.Color `json:"color"`
	At        time.Time   `json:"at"`
}

// Session is the authoritative state of one game instance. All mutable
// fields are guarded by the session mutex, which handlers hold for the
// duration of one invocation.
type Session struct {
	ID        string
	Status    Status
	Players   map[rules.Color]*Player
	Turn      rules.Color
	Result    Result
	CreatedAt time.Time
	Engine    rules.Engine
	Moves     []MoveRecord

	mu     sync.Mutex
	expiry *time.Timer
}

// Lock acquires the per-session mutex.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// PlayerCount returns the number of occupied color slots.
func (s *Session) PlayerCount() int {
	return len(s.Players)
}

// NextOpenColor returns the color the next joiner is assigned. Slots
// fill white before black, so a vacated white slot is refilled first.
func (s *Session) NextOpenColor() (rules.Color, bool) {
	if _, taken := s.Players[rules.White]; !taken {
		return rules.White, true
	}
	if _, taken := s.Players[rules.Black]; !taken {
		return rules.Black, true
	}
	return "", false
}

// Finish transitions the session to Finished with the given result.
// The first call wins; later calls are ignored (the result is set
// exactly once).
func (s *Session) Finish(result Result) {
	if s.Status == StatusFinished {
		return
	}
	s.Status = StatusFinished
	s.Result = result
}

// Usernames returns the occupied slots as color -> username, the shape
// broadcast in session updates.
func (s *Session) Usernames() map[rules.Color]string {
	players := make(map[rules.Color]string, len(s.Players))
	for color, p := range s.Players {
		players[color] = p.Username
	}
	return players
}
