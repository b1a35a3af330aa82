package websocket

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Bolkyyy/YDChess/game/service"
	"github.com/Bolkyyy/YDChess/validate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Large enough for a chat
	// message at the validation limit plus the frame envelope.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client is one WebSocket connection. It implements service.Conn. The
// membership context is owned by the read pump goroutine; the service
// re-verifies it against the seated connection on every call.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
	ctx  *service.ConnContext

	closeOnce sync.Once
}

// ServeWS upgrades an HTTP request and runs the connection's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   newClientID(),
	}

	go client.writePump()
	go client.readPump()
}

// ID returns the connection identifier.
func (c *Client) ID() string { return c.id }

// Send marshals a private frame onto the client's queue.
func (c *Client) Send(event string, payload any) {
	data, err := marshalFrame(event, payload)
	if err != nil {
		log.Printf("[WS] Failed to marshal %s frame: %v", event, err)
		return
	}
	c.enqueue(data)
}

// enqueue hands a marshaled frame to the write pump without blocking.
// A full queue means the peer stopped reading; the frame is dropped and
// the read deadline reaps the connection.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Client %s send queue full, dropping frame", c.id)
	}
}

func (c *Client) sendError(err error) {
	code := service.ErrorCode(err)
	if errors.Is(err, validate.ErrInvalid) {
		code = "invalid_payload"
	}
	c.Send(service.EventError, service.ErrorPayload{
		Code:    code,
		Message: err.Error(),
	})
}

// readPump pumps frames from the connection to the game service.
func (c *Client) readPump() {
	defer func() {
		c.hub.svc.Disconnect(c, c.ctx)
		c.closeOnce.Do(func() { close(c.send) })
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Client %s read error: %v", c.id, err)
			}
			break
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.sendError(fmt.Errorf("%w: malformed frame", validate.ErrInvalid))
			continue
		}
		c.dispatch(frame)
	}
}

// dispatch routes one inbound frame to the matching service call and
// reports any failure back to this connection only.
func (c *Client) dispatch(frame Frame) {
	switch frame.Event {
	case "create_game":
		created := c.hub.svc.CreateGame()
		c.Send(service.EventGameCreated, created)

	case "join_game":
		if c.ctx != nil {
			c.sendError(fmt.Errorf("%w: connection already in session %s", service.ErrNotAuthorized, c.ctx.SessionID))
			return
		}
		var p struct {
			SessionID string `json:"sessionId"`
			Username  string `json:"username"`
		}
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			c.sendError(fmt.Errorf("%w: malformed join_game payload", validate.ErrInvalid))
			return
		}
		if err := validate.Username(p.Username); err != nil {
			c.sendError(err)
			return
		}
		ctx, err := c.hub.svc.Join(c, p.SessionID, p.Username)
		if err != nil {
			c.sendError(err)
			return
		}
		c.ctx = ctx

	case "move":
		if c.ctx == nil {
			c.sendError(service.ErrNotAuthorized)
			return
		}
		var p struct {
			From      string `json:"from"`
			To        string `json:"to"`
			Promotion string `json:"promotion"`
		}
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			c.sendError(fmt.Errorf("%w: malformed move payload", validate.ErrInvalid))
			return
		}
		if err := validate.Move(p.From, p.To, p.Promotion); err != nil {
			c.sendError(err)
			return
		}
		if err := c.hub.svc.Move(c, c.ctx, p.From, p.To, p.Promotion); err != nil {
			c.sendError(err)
		}

	case "chat_message":
		if c.ctx == nil {
			c.sendError(service.ErrNotAuthorized)
			return
		}
		var p struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			c.sendError(fmt.Errorf("%w: malformed chat_message payload", validate.ErrInvalid))
			return
		}
		if err := validate.ChatMessage(p.Message); err != nil {
			c.sendError(err)
			return
		}
		if err := c.hub.svc.Chat(c, c.ctx, p.Message); err != nil {
			c.sendError(err)
		}

	default:
		c.sendError(fmt.Errorf("%w: unknown event %q", validate.ErrInvalid, frame.Event))
	}
}

// writePump pumps queued frames to the connection and keeps it alive
// with pings. Queued frames may be coalesced into one message separated
// by newlines; clients split on '\n'.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func newClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}
