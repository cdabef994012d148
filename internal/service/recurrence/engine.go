// Package recurrence computes the concrete firing instants of custom
// notification rules over a sliding lookahead window.
package recurrence

import (
	"time"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

// DefaultHorizonDays is the standard scheduling lookahead.
const DefaultHorizonDays = 30

// ComputeFirings expands a rule into every instant it fires at inside
// [today, today+horizonDays), where today is the calendar day of now.
// The result is ordered by date, deterministic for identical inputs, and
// never contains an instant at or before now. The window slides: every
// invocation recomputes from today rather than extending a previous one.
func ComputeFirings(rule domain.NotificationRule, horizonDays int, now time.Time) []domain.ScheduledInstant {
	rule = rule.Normalized()

	anchor := rule.Anchor
	if anchor.IsZero() {
		// Rules persisted before the anchor existed start today.
		anchor = now
	}

	today := domain.Midnight(now)

	var instants []domain.ScheduledInstant
	for i := 0; i < horizonDays; i++ {
		day := today.AddDate(0, 0, i)

		fireAt := time.Date(day.Year(), day.Month(), day.Day(),
			rule.Hour, rule.Minute, 0, 0, now.Location())
		if !fireAt.After(now) {
			// Earlier today or clock-skewed into the past: expected
			// steady state, not an error.
			continue
		}

		if !includesDay(rule, anchor, day) {
			continue
		}

		instants = append(instants, domain.NewScheduledInstant(rule, day, fireAt))
	}

	return instants
}

func includesDay(rule domain.NotificationRule, anchor, day time.Time) bool {
	switch rule.Mode {
	case domain.RepeatIteration:
		diffDays := domain.DaysBetween(anchor, day)
		return diffDays >= 0 && diffDays%rule.IterationDays == 0
	default:
		if !rule.FiresOn(day.Weekday()) {
			return false
		}
		diffWeeks := domain.WeeksBetween(anchor, day)
		return diffWeeks >= 0 && diffWeeks%rule.RepeatWeeks == 0
	}
}
