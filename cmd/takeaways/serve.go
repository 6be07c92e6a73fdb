package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/takeaways/internal/server"
	"github.com/jonathan/takeaways/internal/session"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that exposes the generator: GET /catalog lists the
profile's options, POST /session stores an API key for the browser session, and
POST /generate (or /generate/stream for progress events) runs a generation.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	profile, err := cfg.ActiveProfile()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, newRunner(cfg, profile), session.NewManager(cfg.Session), appLogger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}
