package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	reconcileMeterName = "reconcile.service"
)

type ReconcileMetrics struct {
	passesTotal     metric.Int64Counter
	mutationsTotal  metric.Int64Counter
	instantsPlanned metric.Int64Counter
	passDuration    metric.Float64Histogram
}

func NewReconcileMetrics() (*ReconcileMetrics, error) {
	meter := otel.Meter(reconcileMeterName)

	passesTotal, err := meter.Int64Counter(
		"reconcile_passes_total",
		metric.WithDescription("Total number of reconciliation passes"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	mutationsTotal, err := meter.Int64Counter(
		"reconcile_mutations_total",
		metric.WithDescription("Platform mutations applied during reconciliation"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, err
	}

	instantsPlanned, err := meter.Int64Counter(
		"reconcile_instants_planned_total",
		metric.WithDescription("Scheduled instants computed from active rules"),
		metric.WithUnit("{instant}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"reconcile_pass_duration_seconds",
		metric.WithDescription("Reconciliation pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ReconcileMetrics{
		passesTotal:     passesTotal,
		mutationsTotal:  mutationsTotal,
		instantsPlanned: instantsPlanned,
		passDuration:    passDuration,
	}, nil
}

func (m *ReconcileMetrics) RecordPass(ctx context.Context, outcome string) {
	m.passesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReconcileMetrics) RecordMutation(ctx context.Context, operation, outcome string) {
	m.mutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (m *ReconcileMetrics) RecordInstantsPlanned(ctx context.Context, count int) {
	m.instantsPlanned.Add(ctx, int64(count))
}

func (m *ReconcileMetrics) RecordPassDuration(ctx context.Context, duration time.Duration) {
	m.passDuration.Record(ctx, duration.Seconds())
}
