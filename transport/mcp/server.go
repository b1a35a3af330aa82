package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Bolkyyy/YDChess/game/service"
)

// Server wraps an MCP server whose tools are backed by the game service.
type Server struct {
	svc       service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates the MCP surface for a game service.
func NewServer(svc service.GameService) *Server {
	s := &Server{svc: svc}
	s.initMCPServer()
	return s
}

func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"YDChess",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`YDChess - MCP Interface

Session management and inspection for a two-player chess server.

AVAILABLE TOOLS:
- create_game: Create a new game session and get its shareable join URL
- get_game: Get the current state of a session (players, turn, position)
- list_games: List all live sessions
- move_history: Get the move history and PGN of a session

Moves are played over the WebSocket transport by seated players; these
tools observe and manage sessions but cannot move pieces.`),
	)

	s.registerTools()
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game session and return its ID and join URL",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleCreateGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the current state of a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleGetGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all live game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListGames)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the move history and PGN of a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleMoveHistory)
}

// GetMCPServer returns the underlying MCP server for serving.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// Tool handlers

func (s *Server) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	created := s.svc.CreateGame()
	result := fmt.Sprintf("Created session: %s\nJoin URL: %s\n", created.SessionID, created.JoinURL)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	view, err := s.svc.GetGame(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameView(view)), nil
}

func (s *Server) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	views := s.svc.ListGames()

	var b strings.Builder
	fmt.Fprintf(&b, "Live Sessions (%d):\n\n", len(views))
	for _, view := range views {
		fmt.Fprintf(&b, "- %s (Status: %s, Players: %d, Moves: %d, Created: %s)\n",
			view.SessionID, view.Status, len(view.Players), view.MoveCount,
			view.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	moves, pgn, err := s.svc.MoveHistory(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Move History for %s (%d moves):\n\n", sessionID, len(moves))
	for i, mv := range moves {
		fmt.Fprintf(&b, "%d. %s %s (%s-%s)\n", i+1, mv.Color, mv.SAN, mv.From, mv.To)
	}
	fmt.Fprintf(&b, "\nPGN:\n%s\n", pgn)

	return mcp.NewToolResultText(b.String()), nil
}

func formatGameView(view *service.GameView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", view.SessionID)
	fmt.Fprintf(&b, "Status: %s\n", view.Status)
	for color, username := range view.Players {
		fmt.Fprintf(&b, "Player (%s): %s\n", color, username)
	}
	fmt.Fprintf(&b, "Turn: %s\n", view.Turn)
	fmt.Fprintf(&b, "Position: %s\n", view.Position)
	fmt.Fprintf(&b, "Moves played: %d\n", view.MoveCount)
	if view.Result != "" {
		fmt.Fprintf(&b, "Result: %s\n", view.Result)
	}
	fmt.Fprintf(&b, "Created: %s\n", view.CreatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
