package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/gambitrogue/internal/auth"
	"github.com/justinabrahms/gambitrogue/internal/config"
	"github.com/justinabrahms/gambitrogue/internal/session"
	"github.com/justinabrahms/gambitrogue/internal/web"
)

func main() {
	// Parse command line flags
	var showHelp bool
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Development.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.Development.LogLevel).Msg("Invalid log level")
	}
	if cfg.Development.Debug {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Auth.Secret == "" {
		log.Warn().Msg("No auth.secret configured, tokens will not survive a restart")
	}
	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token issuer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	games := session.NewRegistry(log.Logger)
	hub := web.NewHub()
	go hub.Run(ctx)
	go reapIdleGames(ctx, games, cfg.Server.GameTTL)

	service := web.NewService(games, cfg, issuer, hub)
	router := web.NewRouter(service)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int("boardSize", cfg.Engine.BoardSize).
			Int("searchDepth", cfg.Engine.SearchDepth).
			Str("boss", cfg.Engine.Boss).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	log.Info().Msg("Server exited")
}

func reapIdleGames(ctx context.Context, games *session.Registry, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			games.Reap(ttl, now)
		}
	}
}

func showHelpMessage() {
	fmt.Println(`Gambit Rogue Server

DESCRIPTION:
    Rules engine and enemy AI for a roguelike chess deck-builder.
    Each run is a level on a 6x6 to 12x12 board with terrain, fairy
    pieces and an optional boss whose abilities act between turns.
    The player moves over HTTP; the enemy replies in the same request
    and watchers receive both halves of the turn over WebSocket.

USAGE:
    gambitrogue-server [OPTIONS]

OPTIONS:
    -h, --help    Show this help message

CONFIGURATION:
    The server is configured via config.yaml in the current directory
    or ./config, overridable with ROGUECHESS_* environment variables.

    Example config.yaml:
        server:
          host: localhost
          port: 8080
          game_ttl: 2h        # idle games are dropped after this

        engine:
          board_size: 8       # 6 to 12
          search_depth: 2     # enemy lookahead in plies
          boss: none          # e.g. lava_titan, hydra, chaos_lord
          seed: 0             # 0 seeds from the clock
          ai_delay_ms: 400    # pause before watchers see the enemy move
          terrain: true
          midas: false        # double gold from captures

        auth:
          secret: "change-me"
          token_ttl: 24h

        development:
          debug: false
          log_level: info

API ENDPOINTS:
    GET  /api/health                      - Service health check
    POST /api/games                       - Start a level, returns a run token
    GET  /api/games                       - List live levels
    GET  /api/games/{id}                  - Board and turn state
    GET  /api/games/{id}/moves?row=&col=  - Legal destinations of a piece
    POST /api/games/{id}/moves            - Play a move (Bearer token)
    PUT  /api/games/{id}/cards            - Report deck and hand (Bearer token)
    GET  /ws?gameId={id}                  - Live board updates

EXAMPLES:
    # Start with default configuration
    gambitrogue-server

    # Start a 10x10 level against the Lava Titan
    curl -X POST http://localhost:8080/api/games \
      -H "Content-Type: application/json" \
      -d '{"size": 10, "boss": "lava_titan"}'

    # Start from an 8x8 FEN position instead of a generated level
    curl -X POST http://localhost:8080/api/games \
      -H "Content-Type: application/json" \
      -d '{"fen": "4k3/4p3/8/8/8/8/4P3/4K3 w - - 0 1"}'`)
}
