package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/notifier"
	"github.com/peregrinehq/habitloop-scheduler/internal/observability/metrics"
	"github.com/peregrinehq/habitloop-scheduler/internal/observability/tracing"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/recurrence"
)

type Service struct {
	rules       domain.RuleRepository
	scheduler   notifier.Scheduler
	metrics     *metrics.ReconcileMetrics
	recorder    domain.ReconcileResultRecorder
	horizonDays int
	nowFunc     func() time.Time

	// Serializes passes so the periodic trigger and the HTTP trigger
	// never interleave cancellations and creations.
	mu sync.Mutex
}

func NewService(
	rules domain.RuleRepository,
	scheduler notifier.Scheduler,
	reconcileMetrics *metrics.ReconcileMetrics,
	recorder domain.ReconcileResultRecorder,
	horizonDays int,
) *Service {
	if horizonDays <= 0 {
		horizonDays = recurrence.DefaultHorizonDays
	}
	return &Service{
		rules:       rules,
		scheduler:   scheduler,
		metrics:     reconcileMetrics,
		recorder:    recorder,
		horizonDays: horizonDays,
		nowFunc:     time.Now,
	}
}

// Plan diffs the desired schedule derived from rules against the
// platform's scheduled state. It only ever cancels identifiers carrying
// the rule-firing prefix, so notifications scheduled by other
// subsystems pass through untouched.
func Plan(rules []domain.NotificationRule, scheduled []notifier.ScheduledNotification, horizonDays int, now time.Time) Diff {
	valid := make(map[string]struct{})
	var computed []domain.ScheduledInstant
	for _, rule := range rules {
		for _, instant := range recurrence.ComputeFirings(rule, horizonDays, now) {
			valid[instant.Identifier()] = struct{}{}
			computed = append(computed, instant)
		}
	}

	existing := make(map[string]struct{}, len(scheduled))
	var diff Diff
	for _, sn := range scheduled {
		existing[sn.Identifier] = struct{}{}
		if !domain.IsFiringID(sn.Identifier) {
			continue
		}
		if _, ok := valid[sn.Identifier]; !ok {
			diff.ToCancel = append(diff.ToCancel, sn.Identifier)
		}
	}

	for _, instant := range computed {
		if _, ok := existing[instant.Identifier()]; !ok {
			diff.ToCreate = append(diff.ToCreate, instant)
		}
	}

	diff.Computed = len(computed)
	return diff
}

// Reconcile runs one full pass: load rules, list the platform state,
// cancel stale firings, then create missing ones. Per-item failures
// are logged and skipped; the next pass retries them.
func (s *Service) Reconcile(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	startedAt := s.nowFunc()

	ctx, span := tracing.StartReconcilePassSpan(ctx, runID, startedAt)
	defer span.End()

	rules, err := s.rules.ListRules(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load notification rules",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		tracing.RecordSpanError(span, err)
		s.recordPassOutcome(ctx, "error")
		return nil, err
	}

	scheduled, err := s.scheduler.ListScheduled(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list scheduled notifications",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		tracing.RecordSpanError(span, err)
		s.recordPassOutcome(ctx, "error")
		return nil, err
	}

	planCtx, planSpan := tracing.StartPlanPhaseSpan(ctx, len(rules), len(scheduled))
	diff := Plan(rules, scheduled, s.horizonDays, startedAt)
	planSpan.End()

	if s.metrics != nil {
		s.metrics.RecordInstantsPlanned(planCtx, diff.Computed)
	}

	slog.InfoContext(ctx, "planned reconciliation pass",
		slog.String("run_id", runID),
		slog.Int("rule_count", len(rules)),
		slog.Int("scheduled_count", len(scheduled)),
		slog.Int("to_cancel", len(diff.ToCancel)),
		slog.Int("to_create", len(diff.ToCreate)),
	)

	result := &Result{
		RuleCount: len(rules),
		Computed:  diff.Computed,
	}

	cancelCtx, cancelSpan := tracing.StartCancelPhaseSpan(ctx, len(diff.ToCancel))
	for _, identifier := range diff.ToCancel {
		if err := s.cancelOne(cancelCtx, identifier); err != nil {
			slog.ErrorContext(cancelCtx, "failed to cancel scheduled notification",
				slog.String("run_id", runID),
				slog.String("identifier", identifier),
				slog.String("error", err.Error()),
			)
			result.FailedCancel++
			continue
		}
		result.Cancelled++
	}
	cancelSpan.End()

	createCtx, createSpan := tracing.StartCreatePhaseSpan(ctx, len(diff.ToCreate))
	for _, instant := range diff.ToCreate {
		if err := s.createOne(createCtx, instant); err != nil {
			slog.ErrorContext(createCtx, "failed to create scheduled notification",
				slog.String("run_id", runID),
				slog.String("identifier", instant.Identifier()),
				slog.Time("fire_at", instant.FireAt),
				slog.String("error", err.Error()),
			)
			result.FailedCreate++
			continue
		}
		result.Created++
	}
	createSpan.End()

	duration := s.nowFunc().Sub(startedAt)

	outcome := "success"
	if result.FailedCancel > 0 || result.FailedCreate > 0 {
		outcome = "partial"
	}
	s.recordPassOutcome(ctx, outcome)
	if s.metrics != nil {
		s.metrics.RecordPassDuration(ctx, duration)
	}

	if s.recorder != nil {
		recordErr := s.recorder.RecordPass(ctx, domain.ReconcilePassRecord{
			RunID:          runID,
			StartedAt:      startedAt,
			RuleCount:      result.RuleCount,
			ComputedCount:  result.Computed,
			CreatedCount:   result.Created,
			CancelledCount: result.Cancelled,
			FailedCreate:   result.FailedCreate,
			FailedCancel:   result.FailedCancel,
			Duration:       duration,
		})
		if recordErr != nil {
			slog.WarnContext(ctx, "failed to record reconciliation pass",
				slog.String("run_id", runID),
				slog.String("error", recordErr.Error()),
			)
		}
	}

	slog.InfoContext(ctx, "completed reconciliation pass",
		slog.String("run_id", runID),
		slog.Int("cancelled", result.Cancelled),
		slog.Int("created", result.Created),
		slog.Int("failed_cancel", result.FailedCancel),
		slog.Int("failed_create", result.FailedCreate),
		slog.Duration("duration", duration),
	)

	return result, nil
}

func (s *Service) cancelOne(ctx context.Context, identifier string) error {
	ctx, span := tracing.StartSchedulerCallSpan(ctx, "cancel", identifier)
	defer span.End()

	err := s.scheduler.Cancel(ctx, identifier)
	if err != nil {
		tracing.RecordSpanError(span, err)
	}
	s.recordMutation(ctx, "cancel", err)
	return err
}

func (s *Service) createOne(ctx context.Context, instant domain.ScheduledInstant) error {
	ctx, span := tracing.StartSchedulerCallSpan(ctx, "create", instant.Identifier())
	defer span.End()

	err := s.scheduler.Create(ctx, &notifier.ScheduleRequest{
		Identifier: instant.Identifier(),
		FireAt:     instant.FireAt,
		Title:      instant.Title,
		Body:       instant.Title,
		Color:      notifier.HueToHex(instant.ColorHue),
	})
	if err != nil {
		tracing.RecordSpanError(span, err)
	}
	s.recordMutation(ctx, "create", err)
	return err
}

func (s *Service) recordPassOutcome(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordPass(ctx, outcome)
	}
}

func (s *Service) recordMutation(ctx context.Context, operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.RecordMutation(ctx, operation, outcome)
}
