package repository

import (
	"context"
	"testing"
	"time"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/testutil"
)

func TestRuleRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewRuleRepository(client)

	anchor := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	rules := []domain.NotificationRule{
		{
			ID:          "rule-1",
			Title:       "Morning stretch",
			Hour:        8,
			Minute:      30,
			Anchor:      anchor,
			ColorHue:    120,
			Mode:        domain.RepeatWeekly,
			Days:        []time.Weekday{time.Monday, time.Friday},
			RepeatWeeks: 2,
		},
		{
			ID:            "rule-2",
			Title:         "Water plants",
			Hour:          18,
			Anchor:        anchor,
			ColorHue:      200,
			Mode:          domain.RepeatIteration,
			IterationDays: 3,
		},
	}

	if err := repo.SaveRules(ctx, rules); err != nil {
		t.Fatalf("failed to save rules: %v", err)
	}

	loaded, err := repo.ListRules(ctx)
	if err != nil {
		t.Fatalf("failed to list rules: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(loaded))
	}

	first := loaded[0]
	if first.ID != "rule-1" || first.Title != "Morning stretch" {
		t.Errorf("unexpected first rule: %+v", first)
	}
	if first.Hour != 8 || first.Minute != 30 {
		t.Errorf("fire time: got %d:%d, want 8:30", first.Hour, first.Minute)
	}
	if first.RepeatWeeks != 2 {
		t.Errorf("repeat weeks: got %d, want 2", first.RepeatWeeks)
	}
	if len(first.Days) != 2 || first.Days[0] != time.Monday || first.Days[1] != time.Friday {
		t.Errorf("days: got %v", first.Days)
	}

	second := loaded[1]
	if second.Mode != domain.RepeatIteration {
		t.Errorf("mode: got %q, want iteration", second.Mode)
	}
	if second.IterationDays != 3 {
		t.Errorf("iteration days: got %d, want 3", second.IterationDays)
	}
}

func TestListRulesEmptyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewRuleRepository(client)

	rules, err := repo.ListRules(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected no rules, got %d", len(rules))
	}
}

func TestListRulesNormalizesLegacyRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	// A record written before the recurrence fields existed.
	testutil.SeedJSON(ctx, t, client, rulesKey, []map[string]any{
		{
			"id":         "legacy-1",
			"title":      "Old reminder",
			"time":       "2025-06-01T07:15:00Z",
			"startDates": "2025-06-01T07:15:00Z",
			"days":       []int{1, 3},
			"colorHue":   45,
		},
	})

	repo := NewRuleRepository(client)

	rules, err := repo.ListRules(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	rule := rules[0]
	if rule.Mode != domain.RepeatWeekly {
		t.Errorf("mode: got %q, want week", rule.Mode)
	}
	if rule.RepeatWeeks != domain.DefaultRepeatWeeks {
		t.Errorf("repeat weeks: got %d, want %d", rule.RepeatWeeks, domain.DefaultRepeatWeeks)
	}
	if rule.IterationDays != domain.DefaultIterationDays {
		t.Errorf("iteration days: got %d, want %d", rule.IterationDays, domain.DefaultIterationDays)
	}
	if rule.Hour != 7 || rule.Minute != 15 {
		t.Errorf("fire time: got %d:%d, want 7:15", rule.Hour, rule.Minute)
	}
}

func TestListRulesCorruptData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	if err := client.Set(ctx, rulesKey, "not json", 0).Err(); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	repo := NewRuleRepository(client)

	if _, err := repo.ListRules(ctx); err != ErrInvalidRuleData {
		t.Errorf("expected ErrInvalidRuleData, got %v", err)
	}
}
