// Package api provides the HTTP surface of the YDChess server.
//
// The api package implements:
//   - REST endpoints for creating and inspecting game sessions
//   - The WebSocket upgrade endpoint used by players
//   - Static file serving for the browser client
//
// API Endpoints:
//
//	POST /api/games              Create a new game session
//	GET  /api/games              List live sessions
//	GET  /api/games/{id}         Get one session's state
//	GET  /api/games/{id}/history Get a session's move history and PGN
//	GET  /api/health             Liveness and session count
//	GET  /ws                     WebSocket upgrade
//	GET  /game/{id}              Browser game page
//	GET  /                       Static assets
//
// The REST surface is read-mostly. Joining, moving, and chatting happen
// over the WebSocket transport because they need a live connection with
// a seat in the session.
package api
