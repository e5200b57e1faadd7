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

	"github.com/rfp-optimize/platform/internal/bootstrap"
	"github.com/rfp-optimize/platform/internal/config"
	"github.com/rfp-optimize/platform/internal/observability/logging"
	"github.com/rfp-optimize/platform/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	go serveMetrics(ctx, cfg.WorkerMetricsPort, workerMetrics)
	go runSweeper(ctx, cfg, app, workerMetrics)

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeAnalysisRequested(ctx, func(handlerCtx context.Context, rfpID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartAnalysis()
		start := time.Now()
		processErr := app.AnalyzeUC.ProcessByID(processCtx, rfpID)
		workerMetrics.FinishAnalysis("worker", time.Since(start), processErr)
		return processErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

// runSweeper ticks on a fixed interval and lets the enabled sweep jobs decide
// whether the pending backlog gets processed.
func runSweeper(ctx context.Context, cfg config.Config, app *bootstrap.App, workerMetrics *metrics.WorkerMetrics) {
	interval := time.Duration(cfg.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processed, err := app.SweepUC.RunDueJobs(ctx)
			if err != nil {
				slog.Error("sweep_failed", "error", err)
				continue
			}
			workerMetrics.AddSweepProcessed(processed)
			if processed > 0 {
				slog.Info("sweep_completed", "processed", processed)
			}
		}
	}
}

func serveMetrics(ctx context.Context, port string, workerMetrics *metrics.WorkerMetrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_metrics_listening", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("worker_metrics_failed", "error", err)
	}
}
