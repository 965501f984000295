package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"timecapsule/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config, connect postgres and the cache (fail fast).
// 2) Register feature modules and build the request pipeline.
// 3) Serve until SIGINT/SIGTERM, then drain and close shared handles.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		slog.Error("bootstrap api failed", "event", "bootstrap_api_failed", "error", err.Error())
		os.Exit(1)
	}

	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		slog.Error("api shutdown close failed", "event", "bootstrap_api_close_failed", "error", err.Error())
	}
	if runErr != nil {
		slog.Error("api stopped with error", "event", "bootstrap_api_stopped", "error", runErr.Error())
		os.Exit(1)
	}
}
