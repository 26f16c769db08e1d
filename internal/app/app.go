// Package app wires configuration, adapters and services into runnable binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/carehome-backend/internal/auth"
	"github.com/heartmarshall/carehome-backend/internal/config"
	"github.com/heartmarshall/carehome-backend/internal/service/delivery"
	"github.com/heartmarshall/carehome-backend/internal/transport/middleware"
	"github.com/heartmarshall/carehome-backend/internal/transport/rest"
)

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, "server")
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	d, err := newDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close(logger)

	limiter := middleware.NewRateLimiter(clockwork.NewRealClock(), time.Minute)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      newRouter(cfg, d, limiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg *config.Config, d *deps, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	health := rest.NewHealthHandler(d.pool, BuildVersion())
	if d.bus != nil {
		health.WithComponent("nats", d.bus)
	}
	events := rest.NewWorkflowHandler(d.workflow, logger)
	drain := rest.NewDrainHandler(d.delivery, cfg.Drain.TriggerSecret, logger)
	admin := rest.NewAdminHandler(d.profiles, d.delivery, logger)

	authed := middleware.Chain(
		middleware.RequireUser,
		limiter.Limit(cfg.Server.RateLimitPerMinute),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, d.metrics.Handler())
	}
	mux.Handle("POST /api/workflow/events", authed(http.HandlerFunc(events.Submit)))
	mux.Handle("GET /api/admin/notifications/stats", authed(http.HandlerFunc(admin.QueueStats)))
	mux.HandleFunc("POST /api/notifications/drain", drain.Drain)

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)),
	)(mux)
}

// RunDrain performs one drain pass and returns its report. It is the entry
// point of the scheduled drain job.
func RunDrain(ctx context.Context, batchSize int) (delivery.Report, error) {
	cfg, err := config.Load()
	if err != nil {
		return delivery.Report{}, err
	}

	logger := NewLogger(cfg.Log, "drain")

	ctx, cancel := context.WithTimeout(ctx, cfg.Drain.JobTimeout)
	defer cancel()

	d, err := newDeps(ctx, cfg, logger)
	if err != nil {
		return delivery.Report{}, err
	}
	defer d.Close(logger)

	return d.delivery.Drain(ctx, batchSize)
}
