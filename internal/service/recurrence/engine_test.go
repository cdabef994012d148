package recurrence

import (
	"testing"
	"time"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

// 2026-01-04 is a Sunday, 2026-01-05 a Monday.
var (
	sunday = time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
)

func days(instants []domain.ScheduledInstant) []string {
	keys := make([]string, 0, len(instants))
	for _, i := range instants {
		keys = append(keys, i.Day)
	}
	return keys
}

func equalDays(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestComputeFiringsWeekly(t *testing.T) {
	tests := []struct {
		name    string
		rule    domain.NotificationRule
		horizon int
		now     time.Time
		want    []string
	}{
		{
			name: "mon wed fri over one week",
			rule: domain.NotificationRule{
				ID:     "r1",
				Hour:   8,
				Anchor: monday,
				Mode:   domain.RepeatWeekly,
				Days:   []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			},
			horizon: 7,
			now:     monday.Add(7 * time.Hour),
			want:    []string{"2026-01-05", "2026-01-07", "2026-01-09"},
		},
		{
			name: "today excluded when firing time already passed",
			rule: domain.NotificationRule{
				ID:     "r1",
				Hour:   8,
				Anchor: monday,
				Mode:   domain.RepeatWeekly,
				Days:   []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			},
			horizon: 7,
			now:     monday.Add(9 * time.Hour),
			want:    []string{"2026-01-07", "2026-01-09"},
		},
		{
			name: "every other sunday skips intervening weeks",
			rule: domain.NotificationRule{
				ID:          "r2",
				Hour:        10,
				Anchor:      sunday,
				Mode:        domain.RepeatWeekly,
				Days:        []time.Weekday{time.Sunday},
				RepeatWeeks: 2,
			},
			horizon: 30,
			now:     sunday.Add(6 * time.Hour),
			want:    []string{"2026-01-04", "2026-01-18", "2026-02-01"},
		},
		{
			name: "skip weeks align to calendar weeks not anchor weekday",
			rule: domain.NotificationRule{
				ID:          "r3",
				Hour:        10,
				Anchor:      time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), // Wednesday
				Mode:        domain.RepeatWeekly,
				Days:        []time.Weekday{time.Friday},
				RepeatWeeks: 2,
			},
			horizon: 21,
			now:     time.Date(2026, 1, 7, 6, 0, 0, 0, time.UTC),
			// Friday of the anchor's own calendar week still counts as
			// week zero even though it precedes a full 7-day gap.
			want: []string{"2026-01-09", "2026-01-23"},
		},
		{
			name: "empty day set never fires",
			rule: domain.NotificationRule{
				ID:     "r4",
				Hour:   8,
				Anchor: monday,
				Mode:   domain.RepeatWeekly,
			},
			horizon: 30,
			now:     monday,
			want:    nil,
		},
		{
			name: "zero repeat weeks defaults to weekly",
			rule: domain.NotificationRule{
				ID:          "r5",
				Hour:        8,
				Anchor:      sunday,
				Mode:        domain.RepeatWeekly,
				Days:        []time.Weekday{time.Sunday},
				RepeatWeeks: 0,
			},
			horizon: 15,
			now:     sunday.Add(time.Hour),
			want:    []string{"2026-01-04", "2026-01-11", "2026-01-18"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := days(ComputeFirings(tt.rule, tt.horizon, tt.now))
			if !equalDays(got, tt.want) {
				t.Errorf("firing days: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFiringsIteration(t *testing.T) {
	tests := []struct {
		name    string
		rule    domain.NotificationRule
		horizon int
		now     time.Time
		want    []string
	}{
		{
			name: "every third day from anchor",
			rule: domain.NotificationRule{
				ID:            "r1",
				Hour:          9,
				Anchor:        monday,
				Mode:          domain.RepeatIteration,
				IterationDays: 3,
			},
			horizon: 10,
			now:     monday.Add(6 * time.Hour),
			want:    []string{"2026-01-05", "2026-01-08", "2026-01-11", "2026-01-14"},
		},
		{
			name: "every other day over five days",
			rule: domain.NotificationRule{
				ID:            "r2",
				Hour:          9,
				Anchor:        monday,
				Mode:          domain.RepeatIteration,
				IterationDays: 2,
			},
			horizon: 5,
			now:     monday.Add(6 * time.Hour),
			want:    []string{"2026-01-05", "2026-01-07", "2026-01-09"},
		},
		{
			name: "anchor in the future emits nothing before it",
			rule: domain.NotificationRule{
				ID:            "r3",
				Hour:          9,
				Anchor:        monday.AddDate(0, 0, 4),
				Mode:          domain.RepeatIteration,
				IterationDays: 2,
			},
			horizon: 7,
			now:     monday.Add(6 * time.Hour),
			want:    []string{"2026-01-09", "2026-01-11"},
		},
		{
			name: "zero iteration days falls back to migration default",
			rule: domain.NotificationRule{
				ID:            "r4",
				Hour:          9,
				Anchor:        monday,
				Mode:          domain.RepeatIteration,
				IterationDays: 0,
			},
			horizon: 5,
			now:     monday.Add(6 * time.Hour),
			want:    []string{"2026-01-05", "2026-01-07", "2026-01-09"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := days(ComputeFirings(tt.rule, tt.horizon, tt.now))
			if !equalDays(got, tt.want) {
				t.Errorf("firing days: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFiringsNeverEmitsPastInstants(t *testing.T) {
	rule := domain.NotificationRule{
		ID:            "r1",
		Hour:          9,
		Minute:        30,
		Anchor:        monday,
		Mode:          domain.RepeatIteration,
		IterationDays: 1,
	}

	now := monday.Add(9*time.Hour + 30*time.Minute) // exactly the firing time
	for _, instant := range ComputeFirings(rule, 10, now) {
		if !instant.FireAt.After(now) {
			t.Errorf("instant %s fires at %s, not after now %s",
				instant.Identifier(), instant.FireAt, now)
		}
	}
}

func TestComputeFiringsDeterministic(t *testing.T) {
	rule := domain.NotificationRule{
		ID:          "abc123",
		Title:       "Stretch",
		Hour:        8,
		Anchor:      monday,
		Mode:        domain.RepeatWeekly,
		Days:        []time.Weekday{time.Monday, time.Thursday},
		RepeatWeeks: 1,
	}
	now := monday.Add(6 * time.Hour)

	first := ComputeFirings(rule, DefaultHorizonDays, now)
	second := ComputeFirings(rule, DefaultHorizonDays, now)

	if len(first) != len(second) {
		t.Fatalf("got %d and %d instants across identical runs", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("instant %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}

	if got, want := first[0].Identifier(), "custom-abc123-2026-01-05"; got != want {
		t.Errorf("identifier: got %q, want %q", got, want)
	}
}

func TestComputeFiringsCorruptModeDefaultsToWeekly(t *testing.T) {
	rule := domain.NotificationRule{
		ID:     "r1",
		Hour:   8,
		Anchor: monday,
		Mode:   "unknown",
		Days:   []time.Weekday{time.Monday},
	}

	got := days(ComputeFirings(rule, 14, monday.Add(6*time.Hour)))
	want := []string{"2026-01-05", "2026-01-12"}
	if !equalDays(got, want) {
		t.Errorf("firing days: got %v, want %v", got, want)
	}
}
