package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Bolkyyy/YDChess/game/rules"
	"github.com/Bolkyyy/YDChess/game/session"
)

type gameService struct {
	registry *session.Registry
	bus      Broadcaster
	baseURL  string
}

// NewGameService creates the orchestrator. baseURL is the externally
// reachable server root used to build join URLs.
func NewGameService(registry *session.Registry, bus Broadcaster, baseURL string) GameService {
	return &gameService{
		registry: registry,
		bus:      bus,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *gameService) CreateGame() GameCreatedPayload {
	sess := s.registry.Create()
	return GameCreatedPayload{
		SessionID: sess.ID,
		JoinURL:   fmt.Sprintf("%s/game/%s", s.baseURL, sess.ID),
	}
}

func (s *gameService) Join(conn Conn, sessionID, username string) (*ConnContext, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Status == session.StatusFinished {
		return nil, fmt.Errorf("%w: session %s is finished", ErrSessionNotActive, sessionID)
	}

	color, open := sess.NextOpenColor()
	if !open {
		return nil, fmt.Errorf("%w: session %s", ErrSessionFull, sessionID)
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "anonymous"
	}

	sess.Players[color] = &session.Player{ConnID: conn.ID(), Username: username}
	if sess.PlayerCount() == 2 && sess.Status == session.StatusWaiting {
		sess.Status = session.StatusPlaying
	}

	// Join the room before the acknowledgment so the new member sees
	// every broadcast from this point on, starting with its own update.
	s.bus.Join(sessionID, conn)

	conn.Send(EventJoined, JoinedPayload{
		SessionID: sessionID,
		Color:     color,
		Position:  sess.Engine.FEN(),
		Turn:      sess.Turn,
		Status:    sess.Status,
		Moves:     sess.Moves,
		Players:   sess.Usernames(),
	})
	s.bus.Broadcast(sessionID, EventSessionUpdate, SessionUpdatePayload{
		Players: sess.Usernames(),
		Status:  sess.Status,
		Turn:    sess.Turn,
	})

	log.Printf("[GAME] %s joined session %s as %s (status: %s)", username, sessionID, color, sess.Status)
	return &ConnContext{SessionID: sessionID, Color: color, Username: username}, nil
}

func (s *gameService) Move(conn Conn, ctx *ConnContext, from, to, promotion string) error {
	sess, err := s.registry.Get(ctx.SessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	if !seated(sess, ctx.Color, conn.ID()) {
		return fmt.Errorf("%w: connection does not hold the %s seat", ErrNotAuthorized, ctx.Color)
	}
	if sess.Status != session.StatusPlaying {
		return fmt.Errorf("%w: session is %s", ErrSessionNotActive, sess.Status)
	}
	if sess.Turn != ctx.Color {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, sess.Turn)
	}

	san, err := sess.Engine.Move(from, to, promotion)
	if err != nil {
		return err
	}

	sess.Moves = append(sess.Moves, session.MoveRecord{
		From:      from,
		To:        to,
		Promotion: promotion,
		SAN:       san,
		Color:     ctx.Color,
		At:        time.Now(),
	})
	sess.Turn = sess.Engine.Turn()

	s.bus.Broadcast(ctx.SessionID, EventMoveApplied, MoveAppliedPayload{
		From:       from,
		To:         to,
		Promotion:  promotion,
		Move:       san,
		Position:   sess.Engine.FEN(),
		Turn:       sess.Turn,
		MoverColor: ctx.Color,
	})

	if term, over := sess.Engine.Terminal(); over {
		result := session.ResultDraw
		if term.Winner != "" {
			result = session.ResultForWinner(term.Winner)
		}
		sess.Finish(result)
		s.bus.Broadcast(ctx.SessionID, EventGameOver, GameOverPayload{
			Result: result,
			Reason: term.Reason,
			Winner: term.Winner,
			PGN:    sess.Engine.PGN(),
		})
		log.Printf("[GAME] Session %s finished: %s (%s)", ctx.SessionID, result, term.Reason)
	}

	return nil
}

func (s *gameService) Chat(conn Conn, ctx *ConnContext, message string) error {
	sess, err := s.registry.Get(ctx.SessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	if !seated(sess, ctx.Color, conn.ID()) {
		return fmt.Errorf("%w: connection does not hold the %s seat", ErrNotAuthorized, ctx.Color)
	}

	s.bus.Broadcast(ctx.SessionID, EventChatMessage, ChatMessagePayload{
		SenderColor: ctx.Color,
		Username:    ctx.Username,
		Message:     message,
		Timestamp:   time.Now(),
	})
	return nil
}

func (s *gameService) Disconnect(conn Conn, ctx *ConnContext) {
	if ctx == nil {
		return
	}

	sess, err := s.registry.Get(ctx.SessionID)
	if err != nil {
		// The session may have expired while the connection was still
		// open; the room can still hold it.
		s.bus.Leave(ctx.SessionID, conn)
		return
	}

	sess.Lock()

	if !seated(sess, ctx.Color, conn.ID()) {
		sess.Unlock()
		s.bus.Leave(ctx.SessionID, conn)
		return
	}

	delete(sess.Players, ctx.Color)
	s.bus.Leave(ctx.SessionID, conn)
	s.bus.Broadcast(ctx.SessionID, EventPlayerLeft, PlayerLeftPayload{Color: ctx.Color})

	empty := false
	switch sess.Status {
	case session.StatusPlaying:
		// A mid-game departure forfeits. The opponent wins by
		// abandonment rather than waiting out a dead session.
		sess.Finish(session.ResultAbandoned)
		s.bus.Broadcast(ctx.SessionID, EventGameOver, GameOverPayload{
			Result: session.ResultAbandoned,
			Reason: rules.ReasonAbandoned,
			Winner: ctx.Color.Opponent(),
		})
		log.Printf("[GAME] Session %s abandoned by %s", ctx.SessionID, ctx.Color)
	case session.StatusWaiting:
		s.bus.Broadcast(ctx.SessionID, EventSessionUpdate, SessionUpdatePayload{
			Players: sess.Usernames(),
			Status:  sess.Status,
			Turn:    sess.Turn,
		})
	case session.StatusFinished:
		empty = sess.PlayerCount() == 0
	}

	sess.Unlock()

	if empty {
		s.registry.Delete(ctx.SessionID)
	}
}

func (s *gameService) GetGame(sessionID string) (*GameView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return viewOf(sess), nil
}

func (s *gameService) ListGames() []*GameView {
	sessions := s.registry.List()
	views := make([]*GameView, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		views = append(views, viewOf(sess))
		sess.Unlock()
	}
	return views
}

func (s *gameService) MoveHistory(sessionID string) ([]session.MoveRecord, string, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, "", err
	}

	sess.Lock()
	defer sess.Unlock()

	moves := make([]session.MoveRecord, len(sess.Moves))
	copy(moves, sess.Moves)
	return moves, sess.Engine.PGN(), nil
}

// seated reports whether connID currently holds the given seat.
func seated(sess *session.Session, color rules.Color, connID string) bool {
	p, ok := sess.Players[color]
	return ok && p.ConnID == connID
}

func viewOf(sess *session.Session) *GameView {
	return &GameView{
		SessionID: sess.ID,
		Status:    sess.Status,
		Players:   sess.Usernames(),
		Turn:      sess.Turn,
		Position:  sess.Engine.FEN(),
		MoveCount: len(sess.Moves),
		Result:    sess.Result,
		CreatedAt: sess.CreatedAt,
	}
}
