// Package rules adapts an external chess rules engine for the session core.
//
// The session orchestrator never reasons about chess itself. It hands a
// from/to/promotion triple to an Engine, and interprets the result:
//   - an error means the move was rejected and the session is untouched
//   - success yields the applied move in SAN plus the side to move next
//   - Terminal reports checkmate/stalemate/draw after the fact
//
// The production binding is built on github.com/notnil/chess, which owns
// the position representation, legality checking, and PGN serialization.
// Sessions reference the engine instance; they never duplicate position
// state.
package rules
