package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"timecapsule/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config and connect postgres.
// 2) Sweep expired activity-log rows on an interval until signalled.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker(ctx)
	if err != nil {
		slog.Error("bootstrap worker failed", "event", "bootstrap_worker_failed", "error", err.Error())
		os.Exit(1)
	}
	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		slog.Error("worker shutdown close failed", "event", "bootstrap_worker_close_failed", "error", err.Error())
	}
	if runErr != nil {
		slog.Error("worker stopped with error", "event", "bootstrap_worker_stopped", "error", runErr.Error())
		os.Exit(1)
	}
}
