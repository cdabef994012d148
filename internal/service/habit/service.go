package habit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/syncer"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/reminder"
)

// SeriesPoint is one bucket of a habit chart: a day key (or the first
// day of a week) and the logged total for that bucket.
type SeriesPoint struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// Service owns habit logging and preferences. Every date bucket flows
// through the effective-day calculation so late-night logs land on the
// intended day, and every log refreshes that habit's interval reminder.
type Service struct {
	habits    domain.HabitRepository
	reminders *reminder.Service
	syncer    *syncer.Client
	nowFunc   func() time.Time
}

// NewService wires the habit service. syncClient may be nil when no
// sync backend is configured.
func NewService(habits domain.HabitRepository, reminders *reminder.Service, syncClient *syncer.Client) *Service {
	return &Service{
		habits:    habits,
		reminders: reminders,
		syncer:    syncClient,
		nowFunc:   time.Now,
	}
}

// Log records value for habit on the current effective day, stamps the
// habit's last-updated time, and reschedules its reminder. Reminder and
// sync failures are logged but never fail the log itself.
func (s *Service) Log(ctx context.Context, habit domain.HabitType, value int) (string, error) {
	if !habit.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidHabitType, habit)
	}

	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	settings = settings.Normalized()

	now := s.nowFunc()
	dayKey := domain.EffectiveDay(now, settings.RolloverHour)

	if err := s.habits.SetHistoryValue(ctx, habit, dayKey, value); err != nil {
		return "", err
	}
	if err := s.habits.SetLastUpdated(ctx, habit, now); err != nil {
		return "", err
	}

	if s.reminders != nil {
		if err := s.reminders.RescheduleFrom(ctx, habit, now, settings.ReminderHours[habit]); err != nil {
			slog.WarnContext(ctx, "failed to reschedule reminder after log",
				slog.String("habit", habit.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.syncHistory(ctx)

	slog.DebugContext(ctx, "logged habit",
		slog.String("habit", habit.String()),
		slog.String("day", dayKey),
		slog.Int("value", value),
	)
	return dayKey, nil
}

// EditHistory overwrites the value for an arbitrary past day. Unlike
// Log it neither stamps last-updated nor touches reminders.
func (s *Service) EditHistory(ctx context.Context, habit domain.HabitType, dayKey string, value int) error {
	if !habit.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidHabitType, habit)
	}
	if _, err := domain.ParseDayKey(dayKey); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDayKey, dayKey)
	}

	if err := s.habits.SetHistoryValue(ctx, habit, dayKey, value); err != nil {
		return err
	}

	s.syncHistory(ctx)
	return nil
}

// EditDay overwrites one day's counts across all habits at once.
func (s *Service) EditDay(ctx context.Context, dayKey string, counts domain.DayCounts) error {
	if _, err := domain.ParseDayKey(dayKey); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDayKey, dayKey)
	}

	for _, habit := range domain.HabitTypes {
		value, ok := counts[habit]
		if !ok {
			continue
		}
		if err := s.habits.SetHistoryValue(ctx, habit, dayKey, value); err != nil {
			return err
		}
	}

	s.syncHistory(ctx)
	return nil
}

// Today returns the current effective day key and each habit's count on
// it. Habits with no log on the day read as zero.
func (s *Service) Today(ctx context.Context) (string, domain.DayCounts, error) {
	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return "", nil, err
	}
	settings = settings.Normalized()

	dayKey := domain.EffectiveDay(s.nowFunc(), settings.RolloverHour)

	counts := make(domain.DayCounts, len(domain.HabitTypes))
	for _, habit := range domain.HabitTypes {
		history, err := s.habits.GetHistory(ctx, habit)
		if err != nil {
			return "", nil, err
		}
		counts[habit] = history[dayKey]
	}
	return dayKey, counts, nil
}

// History returns the full logged history for one habit.
func (s *Service) History(ctx context.Context, habit domain.HabitType) (domain.History, error) {
	if !habit.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidHabitType, habit)
	}
	return s.habits.GetHistory(ctx, habit)
}

// DailySeries returns the last numDays of one habit as chart points,
// oldest first.
func (s *Service) DailySeries(ctx context.Context, habit domain.HabitType, numDays int) ([]SeriesPoint, error) {
	if !habit.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidHabitType, habit)
	}

	history, err := s.habits.GetHistory(ctx, habit)
	if err != nil {
		return nil, err
	}

	keys := domain.PastDays(numDays, s.nowFunc())
	points := make([]SeriesPoint, 0, len(keys))
	for _, key := range keys {
		points = append(points, SeriesPoint{Day: key, Value: history[key]})
	}
	return points, nil
}

// WeeklySeries returns the last numWeeks of one habit summed per week,
// oldest first. Each point's Day is the first day of its week.
func (s *Service) WeeklySeries(ctx context.Context, habit domain.HabitType, numWeeks int) ([]SeriesPoint, error) {
	if !habit.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidHabitType, habit)
	}

	history, err := s.habits.GetHistory(ctx, habit)
	if err != nil {
		return nil, err
	}

	weeks := domain.PastWeeks(numWeeks, s.nowFunc())
	points := make([]SeriesPoint, 0, len(weeks))
	for _, week := range weeks {
		total := 0
		for _, key := range week {
			total += history[key]
		}
		points = append(points, SeriesPoint{Day: week[0], Value: total})
	}
	return points, nil
}

// Settings returns the user's normalized preferences.
func (s *Service) Settings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return settings.Normalized(), nil
}

// UpdateGoals merges the given daily goal totals into settings.
func (s *Service) UpdateGoals(ctx context.Context, totals map[domain.HabitType]int) error {
	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings = settings.Normalized()

	for habit, total := range totals {
		if !habit.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidHabitType, habit)
		}
		settings.Totals[habit] = total
	}
	return s.habits.SaveSettings(ctx, settings)
}

// UpdateReminderHours merges the given reminder intervals into settings
// and reschedules the affected reminders immediately.
func (s *Service) UpdateReminderHours(ctx context.Context, intervals map[domain.HabitType]int) error {
	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings = settings.Normalized()

	for habit, hours := range intervals {
		if !habit.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidHabitType, habit)
		}
		settings.ReminderHours[habit] = hours
	}
	if err := s.habits.SaveSettings(ctx, settings); err != nil {
		return err
	}

	if s.reminders == nil {
		return nil
	}
	lastUpdated, err := s.habits.GetLastUpdated(ctx)
	if err != nil {
		return err
	}
	for habit, hours := range intervals {
		if err := s.reminders.RescheduleFrom(ctx, habit, lastUpdated[habit], hours); err != nil {
			slog.WarnContext(ctx, "failed to reschedule reminder after interval change",
				slog.String("habit", habit.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// UpdateRolloverHour sets the hour at which the logical day rolls over.
func (s *Service) UpdateRolloverHour(ctx context.Context, hour int) error {
	settings, err := s.habits.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings = settings.Normalized()
	settings.RolloverHour = domain.ClampRolloverHour(hour)
	return s.habits.SaveSettings(ctx, settings)
}

// Sync pushes the full habit history to the configured sync backend.
func (s *Service) Sync(ctx context.Context) error {
	if s.syncer == nil {
		return nil
	}

	histories := make(map[domain.HabitType]domain.History, len(domain.HabitTypes))
	for _, habit := range domain.HabitTypes {
		history, err := s.habits.GetHistory(ctx, habit)
		if err != nil {
			return err
		}
		histories[habit] = history
	}
	return s.syncer.SyncHistory(ctx, histories)
}

// syncHistory is the best-effort form of Sync used after writes.
func (s *Service) syncHistory(ctx context.Context) {
	if s.syncer == nil {
		return
	}
	if err := s.Sync(ctx); err != nil {
		slog.WarnContext(ctx, "failed to sync habit history",
			slog.String("error", err.Error()),
		)
	}
}
