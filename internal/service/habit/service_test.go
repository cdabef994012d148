package habit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/notifier"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/reminder"
)

func newTestService(habits domain.HabitRepository, reminders *reminder.Service, now time.Time) *Service {
	svc := NewService(habits, reminders, nil)
	svc.nowFunc = func() time.Time { return now }
	return svc
}

func settingsWithRollover(hour int) *domain.Settings {
	settings := domain.DefaultSettings()
	settings.RolloverHour = hour
	return settings
}

func TestLog_BucketsByEffectiveDay(t *testing.T) {
	tests := []struct {
		name         string
		now          time.Time
		rolloverHour int
		wantDay      string
	}{
		{
			name:         "daytime log lands on the calendar day",
			now:          time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC),
			rolloverHour: 4,
			wantDay:      "2026-01-05",
		},
		{
			name:         "late night log before rollover lands on yesterday",
			now:          time.Date(2026, 1, 5, 2, 30, 0, 0, time.UTC),
			rolloverHour: 4,
			wantDay:      "2026-01-04",
		},
		{
			name:         "zero rollover is plain date truncation",
			now:          time.Date(2026, 1, 5, 0, 30, 0, 0, time.UTC),
			rolloverHour: 0,
			wantDay:      "2026-01-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockHabits := domain.NewMockHabitRepository(ctrl)
			mockHabits.EXPECT().
				GetSettings(gomock.Any()).
				Return(settingsWithRollover(tt.rolloverHour), nil)
			mockHabits.EXPECT().
				SetHistoryValue(gomock.Any(), domain.HabitWater, tt.wantDay, 3).
				Return(nil)
			mockHabits.EXPECT().
				SetLastUpdated(gomock.Any(), domain.HabitWater, tt.now).
				Return(nil)

			svc := newTestService(mockHabits, nil, tt.now)

			day, err := svc.Log(context.Background(), domain.HabitWater, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if day != tt.wantDay {
				t.Errorf("day: got %q, want %q", day, tt.wantDay)
			}
		})
	}
}

func TestLog_ReschedulesReminder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The reminder service runs on the real clock, so anchor to it.
	now := time.Now()
	wantDay := domain.EffectiveDay(now, 0)

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().GetSettings(gomock.Any()).Return(domain.DefaultSettings(), nil)
	mockHabits.EXPECT().SetHistoryValue(gomock.Any(), domain.HabitWater, wantDay, 5).Return(nil)
	mockHabits.EXPECT().SetLastUpdated(gomock.Any(), domain.HabitWater, now).Return(nil)

	mockScheduler := notifier.NewMockScheduler(ctrl)
	mockScheduler.EXPECT().Cancel(gomock.Any(), "reminder-water").Return(nil)
	mockScheduler.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req *notifier.ScheduleRequest) error {
			want := now.Add(2 * time.Hour) // default water interval
			if !req.FireAt.Equal(want) {
				t.Errorf("fire_at: got %s, want %s", req.FireAt, want)
			}
			return nil
		})

	svc := newTestService(mockHabits, reminder.NewService(mockHabits, mockScheduler), now)

	if _, err := svc.Log(context.Background(), domain.HabitWater, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLog_ReminderFailureDoesNotFailLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().GetSettings(gomock.Any()).Return(domain.DefaultSettings(), nil)
	mockHabits.EXPECT().SetHistoryValue(gomock.Any(), domain.HabitFood, "2026-01-05", 1).Return(nil)
	mockHabits.EXPECT().SetLastUpdated(gomock.Any(), domain.HabitFood, now).Return(nil)

	mockScheduler := notifier.NewMockScheduler(ctrl)
	mockScheduler.EXPECT().Cancel(gomock.Any(), "reminder-food").Return(nil)
	mockScheduler.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("gateway unavailable"))

	svc := newTestService(mockHabits, reminder.NewService(mockHabits, mockScheduler), now)

	if _, err := svc.Log(context.Background(), domain.HabitFood, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLog_RejectsUnknownHabit(t *testing.T) {
	svc := newTestService(nil, nil, time.Now())

	_, err := svc.Log(context.Background(), domain.HabitType("sleep"), 1)
	if !errors.Is(err, domain.ErrInvalidHabitType) {
		t.Errorf("expected ErrInvalidHabitType, got %v", err)
	}
}

func TestEditHistory_ValidatesDayKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHabits := domain.NewMockHabitRepository(ctrl)
	svc := newTestService(mockHabits, nil, time.Now())

	err := svc.EditHistory(context.Background(), domain.HabitWater, "01/05/2026", 3)
	if !errors.Is(err, domain.ErrInvalidDayKey) {
		t.Errorf("expected ErrInvalidDayKey, got %v", err)
	}
}

func TestEditHistory_WritesWithoutTouchingReminders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().
		SetHistoryValue(gomock.Any(), domain.HabitStretch, "2025-12-20", 2).
		Return(nil)

	// A scheduler with no expectations: any reminder call would fail the test.
	mockScheduler := notifier.NewMockScheduler(ctrl)

	svc := newTestService(mockHabits, reminder.NewService(mockHabits, mockScheduler), time.Now())

	if err := svc.EditHistory(context.Background(), domain.HabitStretch, "2025-12-20", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestToday_ReadsEveryHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().GetSettings(gomock.Any()).Return(domain.DefaultSettings(), nil)
	for _, habit := range domain.HabitTypes {
		history := domain.History{}
		if habit == domain.HabitWater {
			history["2026-01-05"] = 6
		}
		mockHabits.EXPECT().GetHistory(gomock.Any(), habit).Return(history, nil)
	}

	svc := newTestService(mockHabits, nil, now)

	day, counts, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != "2026-01-05" {
		t.Errorf("day: got %q, want %q", day, "2026-01-05")
	}
	if counts[domain.HabitWater] != 6 {
		t.Errorf("water: got %d, want 6", counts[domain.HabitWater])
	}
	if counts[domain.HabitRacing] != 0 {
		t.Errorf("racing: got %d, want 0", counts[domain.HabitRacing])
	}
}

func TestDailySeries_FillsMissingDaysWithZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().
		GetHistory(gomock.Any(), domain.HabitWater).
		Return(domain.History{
			"2026-01-03": 4,
			"2026-01-05": 7,
		}, nil)

	svc := newTestService(mockHabits, nil, now)

	points, err := svc.DailySeries(context.Background(), domain.HabitWater, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []SeriesPoint{
		{Day: "2026-01-03", Value: 4},
		{Day: "2026-01-04", Value: 0},
		{Day: "2026-01-05", Value: 7},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point[%d]: got %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestWeeklySeries_SumsEachWeek(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().
		GetHistory(gomock.Any(), domain.HabitWorkout).
		Return(domain.History{
			"2026-01-04": 30,
			"2026-01-05": 45,
			"2025-12-29": 20,
		}, nil)

	svc := newTestService(mockHabits, nil, now)

	points, err := svc.WeeklySeries(context.Background(), domain.HabitWorkout, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Value != 20 {
		t.Errorf("older week total: got %d, want 20", points[0].Value)
	}
	if points[1].Value != 75 {
		t.Errorf("recent week total: got %d, want 75", points[1].Value)
	}
}

func TestUpdateReminderHours_ReschedulesChangedHabits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The reminder service runs on the real clock; keep the anchor
	// recent enough that the firing time is still in the future.
	now := time.Now()
	lastUpdate := now.Add(-time.Minute)

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().GetSettings(gomock.Any()).Return(domain.DefaultSettings(), nil)
	mockHabits.EXPECT().
		SaveSettings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, settings *domain.Settings) error {
			if settings.ReminderHours[domain.HabitWater] != 1 {
				t.Errorf("water interval: got %d, want 1", settings.ReminderHours[domain.HabitWater])
			}
			return nil
		})
	mockHabits.EXPECT().
		GetLastUpdated(gomock.Any()).
		Return(map[domain.HabitType]time.Time{domain.HabitWater: lastUpdate}, nil)

	mockScheduler := notifier.NewMockScheduler(ctrl)
	mockScheduler.EXPECT().Cancel(gomock.Any(), "reminder-water").Return(nil)
	mockScheduler.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req *notifier.ScheduleRequest) error {
			want := lastUpdate.Add(time.Hour)
			if !req.FireAt.Equal(want) {
				t.Errorf("fire_at: got %s, want %s", req.FireAt, want)
			}
			return nil
		})

	reminders := reminder.NewService(mockHabits, mockScheduler)
	svc := newTestService(mockHabits, reminders, now)

	err := svc.UpdateReminderHours(context.Background(), map[domain.HabitType]int{domain.HabitWater: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateRolloverHour_Clamps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHabits := domain.NewMockHabitRepository(ctrl)
	mockHabits.EXPECT().GetSettings(gomock.Any()).Return(domain.DefaultSettings(), nil)
	mockHabits.EXPECT().
		SaveSettings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, settings *domain.Settings) error {
			if settings.RolloverHour != 23 {
				t.Errorf("rollover: got %d, want 23", settings.RolloverHour)
			}
			return nil
		})

	svc := newTestService(mockHabits, nil, time.Now())

	if err := svc.UpdateRolloverHour(context.Background(), 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
