package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/api"
	"github.com/wonny/screener/internal/api/handlers"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long:  `Starts the REST API serving screening runs and persisted results.`,
	RunE:  runAPIServer,
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(true)
	if err != nil {
		return err
	}
	defer d.close()

	screeningHandler := handlers.NewScreeningHandler(d.scan, d.repo, d.naver, d.cfg, d.log)
	router := api.NewRouter(screeningHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		d.log.WithField("signal", sig.String()).Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

func init() {
	rootCmd.AddCommand(apiCmd)
}
