package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Bolkyyy/YDChess/game/rules"
	"github.com/Bolkyyy/YDChess/game/service"
	"github.com/Bolkyyy/YDChess/game/session"
	"github.com/Bolkyyy/YDChess/transport/websocket"
)

func newTestServer(t *testing.T) (*Server, service.GameService) {
	t.Helper()
	hub := websocket.NewHub()
	registry := session.NewRegistry(rules.NewChessEngine)
	svc := service.NewGameService(registry, hub, "http://localhost:8080")
	hub.SetService(svc)
	return NewServer(svc, hub, t.TempDir()), svc
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func TestHandleCreateGame(t *testing.T) {
	server, svc := newTestServer(t)

	rec := doRequest(t, server, "POST", "/api/games")
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	var created service.GameCreatedPayload
	decodeBody(t, rec, &created)
	if created.SessionID == "" {
		t.Error("Expected a session ID")
	}
	if !strings.HasSuffix(created.JoinURL, "/game/"+created.SessionID) {
		t.Errorf("Unexpected join URL %q", created.JoinURL)
	}
	if len(svc.ListGames()) != 1 {
		t.Error("Expected the session to be registered")
	}
}

func TestHandleListGames(t *testing.T) {
	server, svc := newTestServer(t)
	svc.CreateGame()
	svc.CreateGame()

	rec := doRequest(t, server, "GET", "/api/games")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Count int                `json:"count"`
		Games []service.GameView `json:"games"`
	}
	decodeBody(t, rec, &body)
	if body.Count != 2 || len(body.Games) != 2 {
		t.Errorf("Expected 2 games, got count=%d len=%d", body.Count, len(body.Games))
	}
}

func TestHandleGetGame(t *testing.T) {
	server, svc := newTestServer(t)
	created := svc.CreateGame()

	t.Run("existing", func(t *testing.T) {
		rec := doRequest(t, server, "GET", "/api/games/"+created.SessionID)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}

		var view service.GameView
		decodeBody(t, rec, &view)
		if view.SessionID != created.SessionID {
			t.Errorf("Expected session %s, got %s", created.SessionID, view.SessionID)
		}
		if view.Status != session.StatusWaiting {
			t.Errorf("Expected waiting, got %s", view.Status)
		}
		if view.Position == "" {
			t.Error("Expected a starting position")
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(t, server, "GET", "/api/games/nope")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d", rec.Code)
		}

		var body map[string]string
		decodeBody(t, rec, &body)
		if body["error"] == "" {
			t.Error("Expected an error message")
		}
	})
}

func TestHandleGetHistory(t *testing.T) {
	server, svc := newTestServer(t)
	created := svc.CreateGame()

	rec := doRequest(t, server, "GET", "/api/games/"+created.SessionID+"/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Moves []session.MoveRecord `json:"moves"`
		PGN   string               `json:"pgn"`
	}
	decodeBody(t, rec, &body)
	if len(body.Moves) != 0 {
		t.Errorf("Expected empty history, got %d moves", len(body.Moves))
	}

	rec = doRequest(t, server, "GET", "/api/games/nope/history")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, "GET", "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected ok status, got %v", body["status"])
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrSessionNotFound, http.StatusNotFound},
		{service.ErrSessionFull, http.StatusConflict},
		{service.ErrSessionNotActive, http.StatusConflict},
		{service.ErrNotAuthorized, http.StatusForbidden},
		{service.ErrIllegalMove, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.status {
			t.Errorf("statusFor(%v): expected %d, got %d", tc.err, tc.status, got)
		}
	}
}
