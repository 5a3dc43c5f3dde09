package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"furnish/internal/fixture"
	"furnish/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixtureAddr  string
	fixturePath  string
	fixtureWatch bool
)

// shutdownGrace bounds graceful shutdown of the fixture server.
const shutdownGrace = 5 * time.Second

// runFixtureServer serves the fixture backend until interrupted.
func runFixtureServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, true); err != nil {
		return err
	}

	addr := cfg.Fixture.Addr
	if fixtureAddr != "" {
		addr = fixtureAddr
	}
	path := cfg.Fixture.Path
	if fixturePath != "" {
		path = fixturePath
	}

	data := fixture.Default()
	if path != "" {
		if data, err = fixture.Load(path); err != nil {
			return err
		}
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	backend := fixture.NewServer(data)
	srv := &http.Server{
		Addr:              addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	if fixtureWatch {
		if path == "" {
			return fmt.Errorf("--watch requires a fixture file")
		}
		w, err := fixture.NewWatcher(path, backend)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return err
		}
		defer w.Stop()
		logger.Info("Reloading fixture on change", zap.String("path", path))
	}

	return serveUntilDone(ctx, srv, len(data.Products))
}

// serveUntilDone runs srv until ctx is cancelled, then shuts it down.
func serveUntilDone(ctx context.Context, srv *http.Server, products int) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("Fixture backend listening",
		zap.String("addr", srv.Addr),
		zap.Int("products", products))
	logging.Get(logging.CategoryFixture).Info("server started", zap.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("fixture server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down fixture backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("fixture server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fixture server failed: %w", err)
	}
	return nil
}
