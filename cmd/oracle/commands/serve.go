package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/oracle/internal/api"
	"github.com/wonny/oracle/internal/api/handlers"
	"github.com/wonny/oracle/internal/scheduler"
)

var serveNoScheduler bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server with the scan scheduler",
	Long: `Starts the HTTP API server and, unless disabled, the cron scheduler
that runs the daily scan and periodic news refresh.

Example:
  go run ./cmd/oracle serve
  go run ./cmd/oracle serve --no-scheduler`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "serve the API without the cron scheduler")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	log := d.Logger

	var sched *scheduler.Scheduler
	if !serveNoScheduler {
		sched, err = buildScheduler(d)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	h := api.Handlers{
		Scan:      handlers.NewScanHandler(d.Pipeline, d.Store, log),
		Portfolio: handlers.NewPortfolioHandler(d.Store, log),
		News:      handlers.NewNewsHandler(d.Pipeline, d.Store, log),
		Watchlist: handlers.NewWatchlistHandler(d.Store, log),
	}
	if sched != nil {
		h.Jobs = handlers.NewJobsHandler(sched)
	}

	server := api.New(d.Config, log, api.NewRouter(h, log))

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", d.Config.Port)
	if sched != nil {
		fmt.Printf("Scheduler running: scan %q, news %q\n", d.Config.ScanSchedule, d.Config.NewsSchedule)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
