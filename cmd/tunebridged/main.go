package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"tunebridge/internal/config"
	"tunebridge/internal/jellyfin"
	"tunebridge/internal/logging"
	"tunebridge/internal/provider"
	"tunebridge/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   cfg.Logging.Path,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	release, err := acquireInstanceLock(cfg)
	if err != nil {
		logger.Error("acquire instance lock", logging.Error(err))
		return
	}
	defer release()

	cache, err := provider.Open(cfg.ProviderCachePath())
	if err != nil {
		logger.Error("open provider cache", logging.Error(err))
		return
	}
	defer cache.Close()

	library := jellyfin.NewConfiguredClient(cfg)
	if library == nil {
		logger.Warn("jellyfin is not configured; candidate and accept endpoints are disabled")
	}

	srv := server.New(cfg, library, cache, logger)
	if err := runHTTPServer(ctx, cfg, srv, logger); err != nil {
		logger.Error("http server", logging.Error(err))
	}
	logger.Info("tunebridged shutting down")
}
