package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/artifactgraphgo/internal/gateway"
)

// serve exposes the engine over socket.io until ctx is cancelled.
func (a *App) serve(ctx context.Context) error {
	gw := gateway.NewServer(a.engine, a.logger)
	defer gw.Close()

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", gw.Handler())

	addr := fmt.Sprintf(":%d", a.config.ServePort)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🌐 Gateway listening.", "address", fmt.Sprintf("http://localhost%s/socket.io/", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gateway server failed: %w", err)
	case <-ctx.Done():
		a.logger.Info("Shutting down gateway...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Gateway shutdown failed", "error", err)
			return err
		}
		a.logger.Debug("Gateway shut down gracefully.")
		return nil
	}
}
