// Package session provides session state and lifecycle for YDChess games.
//
// The session package implements:
//   - The authoritative per-game data model (players, turn, history, result)
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Per-session expiry scheduling and cancellation
//
// Core Types:
//
// Session is the state of one game instance: two color slots filled in
// order (white before black), a status machine Waiting -> Playing ->
// Finished, the side to move, and the append-only move history. The
// chess position itself is owned by the session's rules engine.
//
// Registry owns the set of live sessions. It creates sessions with
// collision-resistant identifiers, schedules an expiry action at
// createdAt + retention that removes the session unconditionally (even
// mid-game), and cancels that action on earlier deletion.
//
// Session Identifiers:
//
// Sessions use 16-character hex IDs drawn from crypto/rand. The width
// makes collisions among live sessions negligible and the IDs
// unguessable, which matters because knowing an ID is what lets a second
// player join.
//
// Concurrency:
//
// The registry guards only the session set; each Session carries its own
// mutex which the orchestrator holds for the duration of one handler
// invocation. Operations on different sessions never block each other.
package session
