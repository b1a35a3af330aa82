package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/Bolkyyy/YDChess/game/service"
	"github.com/Bolkyyy/YDChess/transport/websocket"
)

// Server is the REST API server.
type Server struct {
	service   service.GameService
	hub       *websocket.Hub
	staticDir string
	router    *mux.Router
}

// NewServer creates a new API server.
func NewServer(gameService service.GameService, hub *websocket.Hub, staticDir string) *Server {
	s := &Server{
		service:   gameService,
		hub:       hub,
		staticDir: staticDir,
		router:    mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Browser pages
	s.router.HandleFunc("/game/{id}", s.handleGamePage).Methods("GET")
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionFull), errors.Is(err, service.ErrSessionNotActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	created := s.service.CreateGame()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games := s.service.ListGames()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := s.service.GetGame(id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	moves, pgn, err := s.service.MoveHistory(id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"moves": moves,
		"pgn":   pgn,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": len(s.service.ListGames()),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

// handleGamePage serves the game shell; the page reads the session ID
// from its own URL and joins over the WebSocket.
func (s *Server) handleGamePage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "game.html"))
}
