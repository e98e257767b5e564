package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"explainer/internal/config"
	"explainer/internal/logger"
	"explainer/internal/server"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web forms and JSON API",
		Long: `Start the explainer web server.

The server provides:
  • /topic and /text forms for level explanations
  • POST /api/explain and POST /api/ask for programmatic access
  • /health for liveness checks

Examples:
  # Start server on the configured address (default 127.0.0.1:5000)
  explainer serve

  # Start on custom port
  explainer serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), host, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 5000)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 127.0.0.1)")

	return cmd
}

func runServe(ctx context.Context, host string, port int) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Override server config from flags if provided
	serverCfg := config.GetServer()
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	mode, err := a.mode("")
	if err != nil {
		return err
	}

	srv, err := server.New(serverCfg, mode, a.explainer)
	if err != nil {
		return err
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info(fmt.Sprintf("Server listening on http://%s", srv.Addr()))
		logger.Info("Press Ctrl+C to stop")
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive our signal or an error from server
	select {
	case err := <-serverErrors:
		return err

	case <-ctx.Done():
		logger.Info("Server shutdown initiated", "reason", ctx.Err().Error())

	case sig := <-shutdown:
		logger.Info("Server shutdown initiated", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
		return err
	}
	return nil
}
