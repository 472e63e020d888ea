package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofrs/flock"

	"tunebridge/internal/config"
	"tunebridge/internal/logging"
	"tunebridge/internal/server"
)

const shutdownTimeout = 10 * time.Second

// acquireInstanceLock guards against two daemons sharing one data directory.
func acquireInstanceLock(cfg *config.Config) (func(), error) {
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", cfg.LockPath(), err)
	}
	if !locked {
		return nil, fmt.Errorf("another tunebridged instance holds %s", cfg.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}

func runHTTPServer(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              cfg.Paths.APIBind,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", logging.String("bind", cfg.Paths.APIBind))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
