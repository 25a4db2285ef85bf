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

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/bootstrap"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/config"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/observability/logging"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	engineMetrics := metrics.NewEngineMetrics(serviceName, workerMetrics.Registry())

	app, err := bootstrap.New(ctx, cfg, engineMetrics)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_failed", "error", err)
		}
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeBulkTranslation(ctx, func(handlerCtx context.Context, job domain.BulkTranslationJob) error {
		if !job.EnqueuedAt.IsZero() {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(job.EnqueuedAt))
		}
		workerMetrics.StartJob()
		started := time.Now()

		err := app.ProcessUC.Process(handlerCtx, job)
		workerMetrics.FinishJob(serviceName, time.Since(started), err)
		return err
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	app.Close(shutdownCtx)
	slog.Info("worker_stopped")
}
