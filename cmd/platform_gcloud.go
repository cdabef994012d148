//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/peregrinehq/habitloop-scheduler/internal/config"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/notifier"
	"github.com/peregrinehq/habitloop-scheduler/internal/observability"
)

func initScheduler(ctx context.Context, cfg *config.Config) (notifier.Scheduler, func() error, error) {
	scheduler, err := notifier.NewCloudTasksScheduler(ctx, notifier.CloudTasksConfig{
		ProjectID:  cfg.Notifier.GCloudProjectID,
		LocationID: cfg.Notifier.GCloudLocationID,
		QueueID:    cfg.Notifier.GCloudQueueID,
		TargetURL:  cfg.Notifier.GCloudTargetURL,
		MaxRetries: cfg.Notifier.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("notification scheduler initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Notifier.GCloudProjectID),
		slog.String("location", cfg.Notifier.GCloudLocationID),
		slog.String("queue", cfg.Notifier.GCloudQueueID),
	)

	cleanup := func() error {
		if err := scheduler.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return scheduler, cleanup, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
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
