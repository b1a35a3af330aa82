// Package mcp exposes YDChess session management to MCP clients.
//
// The mcp package implements a Model Context Protocol server whose
// tools call the game service directly. It covers the out-of-band
// surface: creating sessions, inspecting live games, and reading move
// history. Playing moves stays on the WebSocket transport, because a
// move needs a seated connection and MCP tool calls have none.
//
// Tools:
//   - create_game: create a session and get its join URL
//   - get_game: snapshot of one session
//   - list_games: snapshots of all live sessions
//   - move_history: SAN history and PGN of one session
//
// The server is mounted on the HTTP API under /mcp using the streamable
// HTTP transport.
package mcp
