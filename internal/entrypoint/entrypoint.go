package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/config"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the server until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down within the configured timeout.
func Serve(ctx context.Context, router http.Handler, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops first so no task writes after the server is gone.
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// Run wires the application and serves HTTP until interrupted.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, version string) error {
	logger.Info("starting 0010capacity backend",
		zap.String("version", version),
		zap.String("env", string(cfg.App.Env)),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	bgCtx, cancelBackground := context.WithCancel(ctx)
	defer cancelBackground()
	if err := app.StartBackground(bgCtx); err != nil {
		return err
	}

	if count, err := app.Admins.Count(ctx); err == nil && count == 0 {
		logger.Info("no admin account found; POST /api/auth/register or run create-admin")
	}

	onShutdown := func(ctx context.Context) {
		app.StopBackground(ctx)
		cancelBackground()
	}

	return Serve(ctx, app.Router(version), cfg, logger, onShutdown)
}
