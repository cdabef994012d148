package domain

import (
	"strings"
	"time"
)

// RepeatMode selects how a custom notification rule recurs. Exactly one
// mode is active per rule; the fields of the other mode are ignored.
type RepeatMode string

const (
	// RepeatWeekly fires on a weekday pattern every N calendar weeks.
	RepeatWeekly RepeatMode = "week"
	// RepeatIteration fires every N days counted from the rule's anchor date.
	RepeatIteration RepeatMode = "iteration"
)

func (m RepeatMode) String() string {
	return string(m)
}

func (m RepeatMode) IsValid() bool {
	return m == RepeatWeekly || m == RepeatIteration
}

// Migration defaults for rules persisted before the repeat fields existed.
const (
	DefaultRepeatWeeks   = 1
	DefaultIterationDays = 2
)

// NotificationRule is a user-authored custom notification schedule.
// Rules are created and deleted by direct user action; the recurrence
// engine and the reconciler only ever read them.
type NotificationRule struct {
	ID    string
	Title string

	// Hour and Minute are the wall-clock time of day the notification
	// fires at; the rest of the stored time value is ignored.
	Hour   int
	Minute int

	// Anchor is the calendar date the rule was created on. It is the
	// epoch for both recurrence modes.
	Anchor time.Time

	// ColorHue is the display hue (0-360). Cosmetic only.
	ColorHue int

	Mode RepeatMode

	// Days holds the weekdays the rule fires on under RepeatWeekly.
	Days []time.Weekday

	// RepeatWeeks is the every-N-weeks multiplier under RepeatWeekly.
	RepeatWeeks int

	// IterationDays is the every-N-days step under RepeatIteration.
	IterationDays int
}

// Normalized returns a copy with legacy or corrupt recurrence fields
// replaced by the migration defaults. Malformed persisted rules are a
// migration concern, never an error.
func (r NotificationRule) Normalized() NotificationRule {
	if !r.Mode.IsValid() {
		r.Mode = RepeatWeekly
	}
	if r.RepeatWeeks <= 0 {
		r.RepeatWeeks = DefaultRepeatWeeks
	}
	if r.IterationDays <= 0 {
		r.IterationDays = DefaultIterationDays
	}
	return r
}

// FiresOn reports whether the rule's weekly pattern includes the weekday.
func (r NotificationRule) FiresOn(day time.Weekday) bool {
	for _, d := range r.Days {
		if d == day {
			return true
		}
	}
	return false
}

// FiringIDPrefix tags platform notifications owned by the custom-rule
// engine. Identifiers without it are never touched by reconciliation.
const FiringIDPrefix = "custom-"

// FiringID builds the deterministic platform identifier for a rule firing
// on a given day. The format is part of the wire contract with the
// notification platform and must stay bit-exact: custom-{ruleID}-{day key}.
func FiringID(ruleID, dayKey string) string {
	return FiringIDPrefix + ruleID + "-" + dayKey
}

// IsFiringID reports whether a platform identifier belongs to this engine.
func IsFiringID(identifier string) bool {
	return strings.HasPrefix(identifier, FiringIDPrefix)
}

// RuleIDFromFiringID extracts the rule id from a firing identifier.
// Returns an empty string when the identifier is not a firing id.
func RuleIDFromFiringID(identifier string) string {
	if !IsFiringID(identifier) {
		return ""
	}
	rest := strings.TrimPrefix(identifier, FiringIDPrefix)
	// The day key is the trailing YYYY-MM-DD; the rule id itself never
	// contains the separator pattern of a full date suffix.
	if len(rest) < len(dayKeyLayout)+1 {
		return ""
	}
	return rest[:len(rest)-len(dayKeyLayout)-1]
}
