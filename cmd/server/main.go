package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/campuscharge/powerbank/backend-go/internal/web"
	"github.com/rs/zerolog/log"
)

var initServer = defaultInitServer

func defaultInitServer(ctx context.Context, cfg *config.Config) (*web.Server, error) {
	finder, err := station.NewFinderFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing station finder: %w", err)
	}

	// Load once up front so a broken source fails at startup rather than on first request
	if _, err := finder.Directory(ctx); err != nil {
		return nil, fmt.Errorf("loading station directory: %w", err)
	}

	return web.NewServer(cfg, finder)
}

func run(ctx context.Context) error {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	log.Debug().Msg("Initializing power bank server...")
	srv, err := initServer(ctx, cfg)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}
