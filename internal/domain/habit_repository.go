package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=habit_repository.go -destination=habit_repository_mock.go -package=domain

// HabitRepository persists habit history, settings, and per-habit
// last-updated timestamps.
type HabitRepository interface {
	GetHistory(ctx context.Context, habit HabitType) (History, error)
	SaveHistory(ctx context.Context, habit HabitType, history History) error
	SetHistoryValue(ctx context.Context, habit HabitType, dayKey string, value int) error

	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) error

	GetLastUpdated(ctx context.Context) (map[HabitType]time.Time, error)
	SetLastUpdated(ctx context.Context, habit HabitType, at time.Time) error
}
