package domain

import (
	"time"
)

// ScheduledInstant is one computed firing of a rule: a concrete date and
// timestamp inside the scheduling horizon. Instants are pure derivations
// of a rule and a target date; they are recomputed on every
// reconciliation pass and never persisted.
type ScheduledInstant struct {
	RuleID string
	// Day is the target calendar date key (YYYY-MM-DD).
	Day string
	// FireAt is the full firing timestamp: Day at the rule's time of day.
	FireAt time.Time

	// Display fields carried along for platform submission.
	Title    string
	ColorHue int
}

// Identifier returns the deterministic reconciliation key for this
// instant. Two computations of the same rule for the same date always
// agree on it.
func (i ScheduledInstant) Identifier() string {
	return FiringID(i.RuleID, i.Day)
}

func NewScheduledInstant(rule NotificationRule, day time.Time, fireAt time.Time) ScheduledInstant {
	return ScheduledInstant{
		RuleID:   rule.ID,
		Day:      DayKey(day),
		FireAt:   fireAt,
		Title:    rule.Title,
		ColorHue: rule.ColorHue,
	}
}
