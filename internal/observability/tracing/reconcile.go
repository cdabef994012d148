package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reconcileTracerName = "github.com/peregrinehq/habitloop-scheduler/internal/service/reconcile"

func ReconcileTracer() trace.Tracer {
	return otel.Tracer(reconcileTracerName)
}

func StartReconcilePassSpan(ctx context.Context, runID string, startedAt time.Time) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.pass",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("pass.started_at", startedAt.Format(time.RFC3339)),
		),
	)
}

func StartPlanPhaseSpan(ctx context.Context, ruleCount, scheduledCount int) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.plan_phase",
		trace.WithAttributes(
			attribute.Int("rule_count", ruleCount),
			attribute.Int("scheduled_count", scheduledCount),
		),
	)
}

func StartCancelPhaseSpan(ctx context.Context, count int) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.cancel_phase",
		trace.WithAttributes(
			attribute.Int("cancel_count", count),
		),
	)
}

func StartCreatePhaseSpan(ctx context.Context, count int) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.create_phase",
		trace.WithAttributes(
			attribute.Int("create_count", count),
		),
	)
}

func StartSchedulerCallSpan(ctx context.Context, operation, identifier string) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.scheduler."+operation,
		trace.WithAttributes(
			attribute.String("identifier", identifier),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
