package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sportrium/assistant/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat API",
	Long: `Start the HTTP server exposing:

  POST /api/chat      one chat turn {messages|message, userId|sessionId}
  GET  /api/chat/ws   the same operation over a websocket
  GET  /api/health    provider, breaker and runtime status

Shuts down gracefully on SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides SPORTRIUM_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := cfg.Port
	if servePort != "" {
		port = servePort
	}

	a := build(ctx, cfg, logger)
	srv := server.New(a.assistant, a.info, logger,
		server.WithFallback(a.fallback),
		server.WithSessions(a.sessions),
		server.WithMetrics(a.metrics),
	)
	return srv.Run(ctx, ":"+port)
}
