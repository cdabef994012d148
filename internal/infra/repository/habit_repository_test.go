package repository

import (
	"context"
	"testing"
	"time"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/testutil"
)

func TestHabitHistoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewHabitRepository(client)

	history, err := repo.GetHistory(ctx, domain.HabitWater)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %v", history)
	}

	if err := repo.SetHistoryValue(ctx, domain.HabitWater, "2026-01-05", 6); err != nil {
		t.Fatalf("failed to set history value: %v", err)
	}
	if err := repo.SetHistoryValue(ctx, domain.HabitWater, "2026-01-06", 8); err != nil {
		t.Fatalf("failed to set history value: %v", err)
	}
	if err := repo.SetHistoryValue(ctx, domain.HabitWater, "2026-01-05", 7); err != nil {
		t.Fatalf("failed to overwrite history value: %v", err)
	}

	history, err = repo.GetHistory(ctx, domain.HabitWater)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history["2026-01-05"] != 7 {
		t.Errorf("2026-01-05: got %d, want 7", history["2026-01-05"])
	}
	if history["2026-01-06"] != 8 {
		t.Errorf("2026-01-06: got %d, want 8", history["2026-01-06"])
	}

	// Habits are stored under separate keys.
	other, err := repo.GetHistory(ctx, domain.HabitFood)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty food history, got %v", other)
	}
}

func TestSettingsDefaultsWhenUnset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewHabitRepository(client)

	settings, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Totals[domain.HabitWater] != 8 {
		t.Errorf("water goal: got %d, want 8", settings.Totals[domain.HabitWater])
	}
	if settings.ReminderHours[domain.HabitRacing] != -1 {
		t.Errorf("racing interval: got %d, want -1", settings.ReminderHours[domain.HabitRacing])
	}
}

func TestSettingsRoundTripAndPartialFill(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewHabitRepository(client)

	settings := domain.DefaultSettings()
	settings.Totals[domain.HabitWater] = 10
	settings.RolloverHour = 4
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	loaded, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Totals[domain.HabitWater] != 10 {
		t.Errorf("water goal: got %d, want 10", loaded.Totals[domain.HabitWater])
	}
	if loaded.RolloverHour != 4 {
		t.Errorf("rollover hour: got %d, want 4", loaded.RolloverHour)
	}

	// A stored record missing a habit is filled with its default.
	testutil.SeedJSON(ctx, t, client, settingsKey, map[string]any{
		"totals":        map[string]int{"water": 12},
		"notifications": map[string]int{"water": 1},
		"rolloverHour":  2,
	})

	loaded, err = repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Totals[domain.HabitWater] != 12 {
		t.Errorf("water goal: got %d, want 12", loaded.Totals[domain.HabitWater])
	}
	if loaded.Totals[domain.HabitRacing] != 1 {
		t.Errorf("racing goal default: got %d, want 1", loaded.Totals[domain.HabitRacing])
	}
	if loaded.ReminderHours[domain.HabitStretch] != 6 {
		t.Errorf("stretch interval default: got %d, want 6", loaded.ReminderHours[domain.HabitStretch])
	}
}

func TestLastUpdatedRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewHabitRepository(client)

	stamps, err := repo.GetLastUpdated(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stamps) != 0 {
		t.Errorf("expected no stamps, got %v", stamps)
	}

	at := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	if err := repo.SetLastUpdated(ctx, domain.HabitWorkout, at); err != nil {
		t.Fatalf("failed to set last updated: %v", err)
	}

	stamps, err = repo.GetLastUpdated(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stamps[domain.HabitWorkout].Equal(at) {
		t.Errorf("workout stamp: got %s, want %s", stamps[domain.HabitWorkout], at)
	}

	// Writing a second habit keeps the first.
	later := at.Add(time.Hour)
	if err := repo.SetLastUpdated(ctx, domain.HabitWater, later); err != nil {
		t.Fatalf("failed to set last updated: %v", err)
	}

	stamps, err = repo.GetLastUpdated(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stamps[domain.HabitWorkout].Equal(at) {
		t.Errorf("workout stamp lost: got %s", stamps[domain.HabitWorkout])
	}
	if !stamps[domain.HabitWater].Equal(later) {
		t.Errorf("water stamp: got %s, want %s", stamps[domain.HabitWater], later)
	}
}

func TestGetLastUpdatedSkipsCorruptStamp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	testutil.SeedJSON(ctx, t, client, lastUpdatedKey, map[string]string{
		"water": "2026-01-05T14:30:00Z",
		"food":  "not a timestamp",
	})

	repo := NewHabitRepository(client)

	stamps, err := repo.GetLastUpdated(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := stamps[domain.HabitFood]; ok {
		t.Error("corrupt stamp should read as never logged")
	}
	if stamps[domain.HabitWater].IsZero() {
		t.Error("valid stamp missing")
	}
}
