// Command ydchess starts the YDChess server.
//
// The server exposes three surfaces on one port:
//   - WebSocket endpoint (/ws) for playing: joining, moving, chat
//   - REST API (/api) for creating and inspecting sessions
//   - MCP endpoint (/mcp) for agent-driven session management
//
// Flags control host/port, the external base URL used in join links,
// debug logging, and optional ngrok tunneling for sharing games during
// development.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/Bolkyyy/YDChess/api"
	"github.com/Bolkyyy/YDChess/config"
	"github.com/Bolkyyy/YDChess/game/rules"
	"github.com/Bolkyyy/YDChess/game/service"
	"github.com/Bolkyyy/YDChess/game/session"
	"github.com/Bolkyyy/YDChess/transport/mcp"
	"github.com/Bolkyyy/YDChess/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "YDChess Server"
)

// ngrokOptions carries the tunnel settings resolved from flags and
// environment.
type ngrokOptions struct {
	enabled bool
	auth    string
	domain  string
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	defaults := config.FromEnv()

	cmd := &cli.Command{
		Name:    "ydchess",
		Usage:   "two-player chess server with WebSocket, REST, and MCP surfaces",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Value: defaults.Host,
				Usage: "HTTP server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: defaults.Port,
				Usage: "HTTP server port",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Value: defaults.BaseURL,
				Usage: "external base URL used in join links (defaults to the listen address)",
			},
			&cli.StringFlag{
				Name:  "static-dir",
				Value: defaults.StaticDir,
				Usage: "directory containing the browser client",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Value: defaults.Debug,
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, resolveConfig(cmd), ngrokOptions{
				enabled: cmd.Bool("ngrok"),
				auth:    cmd.String("ngrok-auth"),
				domain:  cmd.String("ngrok-domain"),
			})
		},
		Commands: []*cli.Command{
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server instead of the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := resolveConfig(cmd)
					_, gameService := buildHandler(cfg)

					log.Println("MCP stdio server ready")
					return mcpserver.ServeStdio(mcp.NewServer(gameService).GetMCPServer())
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// resolveConfig folds flag values (which already carry environment
// defaults) into the server configuration and applies log settings.
func resolveConfig(cmd *cli.Command) config.Config {
	cfg := config.Config{
		Host:      cmd.String("host"),
		Port:      int(cmd.Int("port")),
		BaseURL:   cmd.String("base-url"),
		StaticDir: cmd.String("static-dir"),
		Debug:     cmd.Bool("debug"),
	}

	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
	return cfg
}

// buildHandler wires the full server stack and returns the root handler.
func buildHandler(cfg config.Config) (http.Handler, service.GameService) {
	hub := websocket.NewHub()
	registry := session.NewRegistry(rules.NewChessEngine)
	gameService := service.NewGameService(registry, hub, cfg.ExternalURL())
	hub.SetService(gameService)

	apiServer := api.NewServer(gameService, hub, cfg.StaticDir)
	mcpServer := mcp.NewServer(gameService)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter, gameService
}

// runServer starts the HTTP server and blocks until a shutdown signal.
// If ngrok is enabled it also provisions a public tunnel so the join
// link can be shared outside the local network.
func runServer(ctx context.Context, cfg config.Config, ng ngrokOptions) error {
	log.Printf("Starting %s v%s", AppName, Version)

	handler, _ := buildHandler(cfg)
	addr := cfg.Addr()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if ng.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, ng, handler)
		}()
	}

	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case <-ctx.Done():
		log.Println("Context cancelled. Shutting down...")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// runNgrokTunnel serves the handler through a public ngrok endpoint
// until the context is cancelled.
func runNgrokTunnel(ctx context.Context, ng ngrokOptions, handler http.Handler) {
	if ng.auth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if ng.domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(ng.domain))
		log.Printf("Using custom ngrok domain: %s", ng.domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(ng.auth),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  Game UI (ngrok): %s/", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
	log.Printf("Share %s/game/<session_id> to invite an opponent", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}
