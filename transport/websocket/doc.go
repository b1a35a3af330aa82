// Package websocket provides the real-time WebSocket transport for
// YDChess sessions.
//
// The websocket package implements:
//   - Bidirectional JSON frame exchange with game clients
//   - Session rooms with ordered fan-out of game events
//   - Inbound frame validation and dispatch to the game service
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model. The Hub keeps one room per
// session and implements the service Broadcaster; each Client connection
// runs a dedicated read pump and write pump goroutine.
//
// Message Protocol:
//
// Both directions carry JSON frames of the form:
//
//	{"event": "move", "payload": {"from": "e2", "to": "e4"}}
//
// Inbound events are create_game, join_game, move, and chat_message.
// Outbound events are game_created, joined, session_update,
// move_applied, game_over, chat_message, player_left, and error. The
// write pump may coalesce queued frames into one WebSocket message
// separated by newlines; clients split on '\n'.
//
// Ordering:
//
// The game service broadcasts while holding the session lock, and each
// client drains a buffered queue in FIFO order, so all members of a
// session observe the same event sequence.
//
// Connection Lifecycle:
//
// 1. Client connects to /ws and is assigned a connection ID
// 2. Client sends create_game or join_game
// 3. On join the hub adds the client to the session room
// 4. Game events flow until the game ends or a side disconnects
// 5. Disconnection vacates the seat via the game service
package websocket
