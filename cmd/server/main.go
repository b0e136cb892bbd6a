package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reshetovitsme/feedview/internal/di"
	"github.com/reshetovitsme/feedview/internal/modules/feed/controller"
	"github.com/reshetovitsme/feedview/internal/shared/config"
	httpServer "github.com/reshetovitsme/feedview/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	// Errors also go to stderr as JSON; that stream is the diagnostic channel
	setupLogger(slog.LevelInfo)

	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Level())

	feedController := do.MustInvoke[*controller.Controller](injector)
	server := do.MustInvoke[*httpServer.Server](injector)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Page load: render the default feed once
	if err := feedController.Attach(ctx); err != nil {
		slog.Error("Failed to attach feed controller", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
			cancel()
		}
	}()

	slog.Info("Application started", "port", cfg.HTTPPort, "fetcher", cfg.Fetcher, "env", cfg.AppEnv)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := di.Shutdown(shutdownCtx, injector); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
}

func setupLogger(level slog.Level) {
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	slog.SetDefault(slog.New(slogmulti.Fanout(textHandler, jsonHandler)))
}
