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

	httpadapter "github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/adapters/http"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/bootstrap"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/config"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/observability/logging"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	engineMetrics := metrics.NewEngineMetrics("api", httpMetrics.Registry())

	app, err := bootstrap.New(ctx, cfg, engineMetrics)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	router := httpadapter.NewRouter(cfg, app.Documents, app.TMImport, httpMetrics).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
	app.Close(shutdownCtx)
	slog.Info("api_stopped")
}
