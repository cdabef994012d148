package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/notifier"
)

const identifierPrefix = "reminder-"

const reminderBody = "Do your habit!"

// Identifier returns the stable per-habit reminder identifier. Each
// habit has at most one pending reminder; rescheduling replaces it.
func Identifier(habit domain.HabitType) string {
	return identifierPrefix + habit.String()
}

func reminderTitle(habit domain.HabitType) string {
	switch habit {
	case domain.HabitFood:
		return "Eat Food"
	case domain.HabitWater:
		return "Drink Water"
	}
	return habit.String()
}

// Service keeps one interval reminder pending per habit, anchored to
// the habit's last log time.
type Service struct {
	habits    domain.HabitRepository
	scheduler notifier.Scheduler
	nowFunc   func() time.Time
}

func NewService(habits domain.HabitRepository, scheduler notifier.Scheduler) *Service {
	return &Service{
		habits:    habits,
		scheduler: scheduler,
		nowFunc:   time.Now,
	}
}

// Reschedule replaces the pending reminder for habit based on its
// stored last-updated time and the configured interval. A habit with a
// disabled interval or no log history is left alone.
func (s *Service) Reschedule(ctx context.Context, habit domain.HabitType) error {
	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings = settings.Normalized()

	lastUpdated, err := s.habits.GetLastUpdated(ctx)
	if err != nil {
		return err
	}

	return s.RescheduleFrom(ctx, habit, lastUpdated[habit], settings.ReminderHours[habit])
}

// RescheduleFrom is Reschedule with the anchor time and interval already
// in hand, for callers that just wrote them.
func (s *Service) RescheduleFrom(ctx context.Context, habit domain.HabitType, lastUpdate time.Time, intervalHours int) error {
	if intervalHours <= 0 || lastUpdate.IsZero() {
		slog.DebugContext(ctx, "skipping reminder",
			slog.String("habit", habit.String()),
			slog.Int("interval_hours", intervalHours),
		)
		return nil
	}

	now := s.nowFunc()
	fireAt := lastUpdate.Add(time.Duration(intervalHours) * time.Hour)
	if !fireAt.After(now) {
		// Past due: fire almost immediately rather than dropping it.
		fireAt = now.Add(time.Second)
	}

	identifier := Identifier(habit)

	if err := s.scheduler.Cancel(ctx, identifier); err != nil {
		slog.WarnContext(ctx, "failed to cancel pending reminder",
			slog.String("identifier", identifier),
			slog.String("error", err.Error()),
		)
	}

	err := s.scheduler.Create(ctx, &notifier.ScheduleRequest{
		Identifier: identifier,
		FireAt:     fireAt,
		Title:      reminderTitle(habit),
		Body:       reminderBody,
	})
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "scheduled reminder",
		slog.String("identifier", identifier),
		slog.Time("fire_at", fireAt),
	)
	return nil
}

// RefreshAll reschedules every habit's reminder, logging and skipping
// per-habit failures.
func (s *Service) RefreshAll(ctx context.Context) error {
	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings = settings.Normalized()

	lastUpdated, err := s.habits.GetLastUpdated(ctx)
	if err != nil {
		return err
	}

	for _, habit := range domain.HabitTypes {
		if err := s.RescheduleFrom(ctx, habit, lastUpdated[habit], settings.ReminderHours[habit]); err != nil {
			slog.ErrorContext(ctx, "failed to reschedule reminder",
				slog.String("habit", habit.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
