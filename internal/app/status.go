package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
)

const statusShutdownTimeout = 5 * time.Second

// statusRoutes serves /health and the engine metrics at /metrics.
func (app *App) statusRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctxlog.FromContext(app.ctx).Debug("Status requested.", "remote", r.RemoteAddr)
		_, _ = io.WriteString(w, "OK\n")
	})
	mux.Handle("GET /metrics", app.metrics.Handler())
	return mux
}

// startStatusServer listens on HealthcheckPort for the duration of Run.
// Port 0 leaves it off.
func (app *App) startStatusServer() {
	port := app.config.HealthcheckPort
	if port <= 0 {
		return
	}
	logger := ctxlog.FromContext(app.ctx).With("port", port)

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.statusRoutes(),
		ReadHeaderTimeout: statusShutdownTimeout,
	}
	srv := app.httpServer
	go func() {
		logger.Info("Status server listening.", "endpoints", "/health /metrics")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server stopped.", "error", err)
		}
	}()
}

func (app *App) stopStatusServer() error {
	if app.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(app.ctx, statusShutdownTimeout)
	defer cancel()

	err := app.httpServer.Shutdown(ctx)
	app.httpServer = nil
	if err != nil {
		return fmt.Errorf("failed to stop status server: %w", err)
	}
	ctxlog.FromContext(app.ctx).Debug("Status server stopped.")
	return nil
}
