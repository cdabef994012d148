//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/peregrinehq/habitloop-scheduler/internal/config"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/notifier"
	"github.com/peregrinehq/habitloop-scheduler/internal/observability"
)

func initScheduler(_ context.Context, cfg *config.Config) (notifier.Scheduler, func() error, error) {
	client := notifier.NewGatewayClient(
		cfg.Notifier.GatewayURL,
		cfg.Notifier.QueueName,
		cfg.Notifier.MaxRetries,
	)

	slog.Info("notification scheduler initialized",
		slog.String("type", "push_gateway"),
		slog.String("url", cfg.Notifier.GatewayURL),
		slog.String("queue", cfg.Notifier.QueueName),
	)

	return client, nil, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "habitloop-scheduler"
	}

	return observability.Init(ctx, observability.Config{
		ServiceName:  serviceName,
		Version:      Version,
		LogLevel:     cfg.LogLevel,
		SamplingRate: 1.0,
	})
}
