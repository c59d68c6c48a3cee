package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "taskmanager/internal/adapter/http"
	"taskmanager/internal/adapter/telemetry"
	"taskmanager/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	logger, err := config.NewAppLogger("taskmanager")

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	container, err := telemetry.NewContainer(telemetry.Config{
		ServiceName:    "taskmanager",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, slogger)

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer container.Shutdown(context.Background())

	container.AppMetrics.StartSystemMetrics(ctx)

	if err := httpadapter.StartServer(ctx, cfg, httpadapter.ServerOptions{
		Metrics: container.AppMetrics,
		Logger:  logger,
		Probe:   container.NewTelemetryProbe(slogger),
	}); err != nil {
		logger.Logger.Fatal("Server terminated: " + err.Error())
	}
}
