// Package service implements the YDChess game orchestration layer.
//
// The service sits between the transports (WebSocket, REST, MCP) and the
// session/rules packages. It owns every state transition of a game:
// creating sessions, seating players, validating and applying moves,
// relaying chat, and tearing sessions down when players leave.
//
// Architecture:
//
//	transport -> GameService -> session.Registry -> rules.Engine
//	                 |
//	                 +-> Broadcaster (fan-out to session members)
//
// Transports are dumb pipes. They decode frames, call one GameService
// method per inbound frame, deliver any returned error back to the
// calling connection, and otherwise forward whatever the service
// broadcasts. All ordering guarantees come from the service holding the
// per-session lock while it submits broadcasts: every member observes
// the same sequence of events for a given session.
//
// Private replies (the joined acknowledgment, error frames) go to one
// connection via Conn.Send; shared facts (moves, chat, lifecycle
// changes) go to the whole session via Broadcaster.Broadcast.
package service
