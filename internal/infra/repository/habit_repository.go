package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

const (
	historyKeyPrefix = "habit:history:"
	settingsKey      = "habit:settings"
	lastUpdatedKey   = "habit:last_updated"
)

// settingsRecord mirrors the legacy client settings export. The
// "notifications" field carries the reminder intervals.
type settingsRecord struct {
	Totals        map[string]int `json:"totals"`
	Notifications map[string]int `json:"notifications"`
	RolloverHour  int            `json:"rolloverHour"`
}

type habitRepository struct {
	client *redis.Client
}

func NewHabitRepository(client *redis.Client) domain.HabitRepository {
	return &habitRepository{
		client: client,
	}
}

func (r *habitRepository) GetHistory(ctx context.Context, habit domain.HabitType) (domain.History, error) {
	data, err := r.client.Get(ctx, historyKeyPrefix+habit.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.History{}, nil
		}
		return nil, err
	}

	var history domain.History
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, ErrInvalidHabitData
	}
	return history, nil
}

func (r *habitRepository) SaveHistory(ctx context.Context, habit domain.HabitType, history domain.History) error {
	data, err := json.Marshal(history)
	if err != nil {
		return ErrInvalidHabitData
	}
	return r.client.Set(ctx, historyKeyPrefix+habit.String(), data, 0).Err()
}

func (r *habitRepository) SetHistoryValue(ctx context.Context, habit domain.HabitType, dayKey string, value int) error {
	history, err := r.GetHistory(ctx, habit)
	if err != nil {
		return err
	}
	history[dayKey] = value
	return r.SaveHistory(ctx, habit, history)
}

func (r *habitRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	data, err := r.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}

	var record settingsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidHabitData
	}

	settings := &domain.Settings{
		Totals:        make(map[domain.HabitType]int, len(record.Totals)),
		ReminderHours: make(map[domain.HabitType]int, len(record.Notifications)),
		RolloverHour:  record.RolloverHour,
	}
	for name, total := range record.Totals {
		settings.Totals[domain.HabitType(name)] = total
	}
	for name, hours := range record.Notifications {
		settings.ReminderHours[domain.HabitType(name)] = hours
	}
	// Partial records from older versions are filled, never rejected.
	return settings.Normalized(), nil
}

func (r *habitRepository) SaveSettings(ctx context.Context, settings *domain.Settings) error {
	if settings == nil {
		return ErrInvalidHabitData
	}

	record := settingsRecord{
		Totals:        make(map[string]int, len(settings.Totals)),
		Notifications: make(map[string]int, len(settings.ReminderHours)),
		RolloverHour:  settings.RolloverHour,
	}
	for habit, total := range settings.Totals {
		record.Totals[habit.String()] = total
	}
	for habit, hours := range settings.ReminderHours {
		record.Notifications[habit.String()] = hours
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidHabitData
	}
	return r.client.Set(ctx, settingsKey, data, 0).Err()
}

func (r *habitRepository) GetLastUpdated(ctx context.Context) (map[domain.HabitType]time.Time, error) {
	data, err := r.client.Get(ctx, lastUpdatedKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return map[domain.HabitType]time.Time{}, nil
		}
		return nil, err
	}

	var record map[string]string
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidHabitData
	}

	result := make(map[domain.HabitType]time.Time, len(record))
	for name, stamp := range record {
		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			// A corrupt stamp reads as never logged.
			continue
		}
		result[domain.HabitType(name)] = t
	}
	return result, nil
}

func (r *habitRepository) SetLastUpdated(ctx context.Context, habit domain.HabitType, at time.Time) error {
	current, err := r.GetLastUpdated(ctx)
	if err != nil {
		return err
	}
	current[habit] = at

	record := make(map[string]string, len(current))
	for name, stamp := range current {
		record[name.String()] = stamp.UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidHabitData
	}
	return r.client.Set(ctx, lastUpdatedKey, data, 0).Err()
}
