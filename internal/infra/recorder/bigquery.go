//go:build gcloud

package recorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt      time.Time `bigquery:"recorded_at"`
	StartedAt       time.Time `bigquery:"started_at"`
	RunID           string    `bigquery:"run_id"`
	RuleCount       int64     `bigquery:"rule_count"`
	ComputedCount   int64     `bigquery:"computed_count"`
	CreatedCount    int64     `bigquery:"created_count"`
	CancelledCount  int64     `bigquery:"cancelled_count"`
	FailedCreate    int64     `bigquery:"failed_create"`
	FailedCancel    int64     `bigquery:"failed_cancel"`
	DurationSeconds float64   `bigquery:"duration_seconds"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReconcileResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reconcile result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, reconcile result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, reconcile result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "reconcile result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordPass(ctx context.Context, record domain.ReconcilePassRecord) error {
	row := &bigQueryRecord{
		RecordedAt:      time.Now(),
		StartedAt:       record.StartedAt,
		RunID:           record.RunID,
		RuleCount:       int64(record.RuleCount),
		ComputedCount:   int64(record.ComputedCount),
		CreatedCount:    int64(record.CreatedCount),
		CancelledCount:  int64(record.CancelledCount),
		FailedCreate:    int64(record.FailedCreate),
		FailedCancel:    int64(record.FailedCancel),
		DurationSeconds: record.Duration.Seconds(),
	}

	if err := r.inserter.Put(ctx, []*bigQueryRecord{row}); err != nil {
		slog.WarnContext(ctx, "failed to insert reconcile pass to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
