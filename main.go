// Command shape-connector serves the Shape Connector puzzle game.
//
// It supports three commands:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "generate" – prints a generated (or daily) game as JSON
//
// Flags control host/port, config directory, log level, daily salt, and
// optional ngrok tunneling for easy external access during development.
// Every flag can also be set from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/shape-connector/api"
	"github.com/wricardo/shape-connector/game/config"
	"github.com/wricardo/shape-connector/game/daily"
	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/service"
	"github.com/wricardo/shape-connector/game/session"
	"github.com/wricardo/shape-connector/game/solver"
	"github.com/wricardo/shape-connector/transport/mcp"
	"github.com/wricardo/shape-connector/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Shape Connector Server"
)

// Session cleanup cadence
const cleanupInterval = time.Hour

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// newApp builds the command tree. Persistent flags on the root are visible
// to every subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "shape-connector",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing preset files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Shorthand for --log-level debug",
			},
			&cli.BoolFlag{
				Name:    "pretty",
				Usage:   "Human readable console logs",
				Sources: cli.EnvVars("LOG_PRETTY"),
			},
			&cli.StringFlag{
				Name:    "daily-salt",
				Usage:   "Secret mixed into daily puzzle seeds",
				Sources: cli.EnvVars("DAILY_SALT"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   24 * time.Hour,
				Usage:   "Remove sessions idle for longer than this",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: setupLogging,
		Action: runHTTPServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  runHTTPServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCPWithInternalServer,
			},
			{
				Name:  "generate",
				Usage: "Print a generated game as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "difficulty",
						Value: string(engine.DifficultyEasy),
						Usage: "Preset used for sizes: easy, medium or hard",
					},
					&cli.IntFlag{
						Name:  "board-size",
						Usage: "Board edge length (overrides the preset)",
					},
					&cli.IntFlag{
						Name:  "path-size",
						Usage: "Puzzle length (overrides the preset)",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed, 0 draws one",
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "Print the daily game of YYYY-MM-DD instead",
					},
					&cli.BoolFlag{
						Name:  "solve",
						Usage: "Include one solution found by the solver",
					},
				},
				Action: runGenerate,
			},
		},
	}
}

// setupLogging configures the global zerolog logger from flags
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := zerolog.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	if cmd.Bool("debug") {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cmd.Bool("pretty") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return ctx, nil
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	gameService, sessionManager, err := initializeServices(cmd.String("config-dir"), cmd.String("daily-salt"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go sessionCleanupRoutine(ctx, sessionManager, cleanupInterval, cmd.Duration("session-ttl"))

	hub := websocket.NewHub()
	go hub.Run(ctx)

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("version", Version).Str("addr", addr).Msg("starting " + AppName)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("api", fmt.Sprintf("http://%s/api", addr)).
			Str("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-serveErr:
		log.Error().Err(runErr).Msg("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
	return runErr
}

// mcpHandler serves single JSON-RPC messages over HTTP POST
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	log.Info().Str("domain", domain).Msg("starting ngrok tunnel")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// initializeServices wires the session and config managers into the game service
func initializeServices(configDir, dailySalt string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	if dailySalt == "" {
		log.Warn().Msg("DAILY_SALT not set, daily puzzles are predictable")
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameServiceWithOptions(sessionManager, configManager, service.Options{
		DailySalt: dailySalt,
	})

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxAge
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.CleanupExpiredSessions(maxAge)
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:<port>; if unavailable, it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cmd *cli.Command) error {
	externalURL := fmt.Sprintf("http://localhost:%d", int(cmd.Int("port")))
	baseURL := externalURL

	log.Info().Str("url", externalURL).Msg("checking for external API server")

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil {
		resp.Body.Close()
	}

	if err != nil || resp.StatusCode != http.StatusOK {
		gameService, sessionManager, err := initializeServices(cmd.String("config-dir"), cmd.String("daily-salt"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		go sessionCleanupRoutine(ctx, sessionManager, cleanupInterval, cmd.Duration("session-ttl"))

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		log.Info().Str("url", baseURL).Msg("started internal HTTP server for MCP stdio")
	} else {
		log.Info().Str("url", externalURL).Msg("external API server found, using it for MCP")
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Info().Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// generateOutput is the JSON printed by the generate command
type generateOutput struct {
	Seed       string            `json:"seed"`
	Date       string            `json:"date,omitempty"`
	Difficulty engine.Difficulty `json:"difficulty"`
	BoardSize  int               `json:"board_size"`
	PathSize   int               `json:"path_size"`
	Board      engine.Board      `json:"board"`
	Puzzle     engine.Puzzle     `json:"puzzle"`
	Solution   engine.Path       `json:"solution,omitempty"`
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	mode := engine.Difficulty(strings.ToLower(cmd.String("difficulty")))
	if !slices.Contains(engine.Difficulties(), mode) {
		return fmt.Errorf("unknown difficulty %q", mode)
	}

	out := generateOutput{Difficulty: mode}
	settings := engine.GetGameSettings(mode)

	var game *engine.Game
	if dateKey := cmd.String("date"); dateKey != "" {
		date, err := daily.ParseDate(dateKey)
		if err != nil {
			return err
		}
		salt := cmd.String("daily-salt")
		out.Date = daily.DateKey(date)
		out.Seed = strconv.FormatUint(daily.Seed(date, salt, mode), 10)
		if game, err = daily.Game(date, salt, mode); err != nil {
			return fmt.Errorf("daily game: %w", err)
		}
	} else {
		if n := int(cmd.Int("board-size")); n > 0 {
			settings.BoardSize = n
		}
		if n := int(cmd.Int("path-size")); n > 0 {
			settings.PathSize = n
		}

		seed := cmd.Uint64("seed")
		if seed == 0 {
			seed = rand.Uint64()
		}
		out.Seed = strconv.FormatUint(seed, 10)

		var err error
		if game, err = engine.GenerateGame(engine.NewSource(seed), settings.BoardSize, settings.PathSize); err != nil {
			return fmt.Errorf("generate %dx%d board with %d cell path: %w", settings.BoardSize, settings.BoardSize, settings.PathSize, err)
		}
	}

	out.BoardSize = game.Board.Size()
	out.PathSize = len(game.Puzzle)
	out.Board = game.Board
	out.Puzzle = game.Puzzle

	if cmd.Bool("solve") {
		path, err := solver.Solve(ctx, game.Board, game.Puzzle, solver.Options{})
		if err != nil {
			log.Warn().Err(err).Msg("solver found no path")
		}
		out.Solution = path
	}

	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
