package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markdave123-py/raget/internal/app"
	"github.com/markdave123-py/raget/internal/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	cfg := config.LoadConfig()
	params, err := config.LoadParams(cfg.ParamsPath)
	if err != nil {
		logger.Error("invalid params file", "path", cfg.ParamsPath, "err", err)
		os.Exit(1)
	}

	application, err := app.NewApp(ctx, cfg, params, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer application.Close()

	// Stage 01: populate the database from whatever is already in the
	// data directory before serving queries.
	if stats, err := application.Populate.Run(ctx); err != nil {
		logger.Error("initial populate failed", "err", err)
		os.Exit(1)
	} else {
		logger.Info("initial populate complete",
			"pages", stats.PagesLoaded,
			"new_chunks", stats.NewChunks,
			"ingested", stats.Ingested,
			"failed_batches", stats.FailedBatches,
		)
	}

	application.Populate.Start(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- application.Server.Start() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "err", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
