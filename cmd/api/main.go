package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rech1n/Kitsune/internal/config"
	"github.com/Rech1n/Kitsune/internal/hianime"
	apihttp "github.com/Rech1n/Kitsune/internal/http"
	"github.com/Rech1n/Kitsune/internal/logging"
	"github.com/Rech1n/Kitsune/internal/streams"
	"github.com/Rech1n/Kitsune/internal/streams/yamlseed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	registry := streams.NewRegistry()
	seed, seedErr := yamlseed.LoadFromDir(cfg.SeedPath)
	if seedErr != nil {
		slog.Warn("stream seeds loaded with warnings", "path", cfg.SeedPath, "error", seedErr)
	}
	added, applyErr := yamlseed.Apply(registry, seed)
	if applyErr != nil {
		slog.Warn("stream seeds applied partially", "path", cfg.SeedPath, "error", applyErr)
	}
	if added > 0 || len(seed.Servers) > 0 {
		slog.Info("stream seeds applied", "servers", len(seed.Servers), "streams", added)
	}

	gateway := hianime.NewClient(cfg.HiAnimeAPIURL, cfg.GatewayTimeout)
	app := apihttp.NewServer(cfg, registry, gateway, logger)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	slog.Info("api started", "port", cfg.Port, "env", cfg.Environment, "hianime", cfg.HiAnimeAPIURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
