package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Bolkyyy/YDChess/game/service"
)

// Frame is the wire envelope for both directions. Inbound payloads stay
// raw until the event name selects a concrete shape.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub tracks which clients belong to which session and fans broadcasts
// out to them. It implements service.Broadcaster.
type Hub struct {
	svc   service.GameService
	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

// NewHub creates an empty hub. SetService must be called before the hub
// accepts connections; the hub and the service reference each other.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// SetService wires the game service the hub dispatches inbound frames to.
func (h *Hub) SetService(svc service.GameService) {
	h.svc = svc
}

// Join adds a connection to a session room.
func (h *Hub) Join(sessionID string, conn service.Conn) {
	client, ok := conn.(*Client)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[sessionID] == nil {
		h.rooms[sessionID] = make(map[*Client]bool)
	}
	h.rooms[sessionID][client] = true

	log.Printf("[WS] Client %s joined room %s (members: %d)",
		client.ID(), sessionID, len(h.rooms[sessionID]))
}

// Leave removes a connection from a session room.
func (h *Hub) Leave(sessionID string, conn service.Conn) {
	client, ok := conn.(*Client)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	members, exists := h.rooms[sessionID]
	if !exists {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, sessionID)
	}

	log.Printf("[WS] Client %s left room %s (members: %d)",
		client.ID(), sessionID, len(members))
}

// Broadcast sends one event to every member of a session room. The
// service calls this while holding the session lock, so each client's
// send queue receives events in the same order.
func (h *Hub) Broadcast(sessionID string, event string, payload any) {
	data, err := marshalFrame(event, payload)
	if err != nil {
		log.Printf("[WS] Failed to marshal %s broadcast: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[sessionID] {
		client.enqueue(data)
	}
}

func marshalFrame(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Payload: raw})
}
