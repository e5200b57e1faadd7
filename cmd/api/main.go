package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/rfp-optimize/platform/internal/adapters/http"
	"github.com/rfp-optimize/platform/internal/bootstrap"
	"github.com/rfp-optimize/platform/internal/config"
	"github.com/rfp-optimize/platform/internal/observability/logging"
	"github.com/rfp-optimize/platform/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")

	router := httpadapter.NewRouter(httpadapter.RouterDeps{
		Auth:          app.Auth,
		Submit:        app.SubmitUC,
		Demo:          app.DemoUC,
		Sweep:         app.SweepUC,
		RFPs:          app.RFPs,
		Rules:         app.Rules,
		Prices:        app.Prices,
		Notifications: app.Notifications,
		Demos:         app.Demos,
		SweepJobs:     app.SweepJobs,
		Queue:         app.Queue,
		Metrics:       httpMetrics,
		Service:       "api",
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", httpMetrics.Handler())
	mux.Handle("/", router.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
