package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/alphadesk/internal/api"
	"github.com/wonny/alphadesk/internal/api/handlers"
)

// apiCmd starts the REST API server
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                     - health check
  GET  /api/v1/rankings/latest     - latest run's rankings
  GET  /api/v1/rankings/{date}     - rankings for a date
  GET  /api/v1/portfolio/latest    - latest portfolio snapshot
  GET  /api/v1/portfolio/{date}    - snapshot for a date
  GET  /api/v1/backtest            - forward performance of latest snapshot
  POST /api/v1/model/run           - trigger a daily run

Example:
  go run ./cmd/alphadesk api
  go run ./cmd/alphadesk api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	limiter := a.limiter
	if !a.redis.Enabled() {
		limiter = nil
	}
	router := api.NewRouter(
		handlers.NewRankingsHandler(a.scores, a.log),
		handlers.NewPortfolioHandler(a.portfolios, a.log),
		handlers.NewBacktestHandler(a.engine, a.log),
		handlers.NewModelHandler(a.runner, a.log),
		limiter,
		a.log,
	)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.log.WithField("signal", sig.String()).Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
