package domain

import (
	"math"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey formats a timestamp as its local calendar date, YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// ParseDayKey parses a YYYY-MM-DD day key.
func ParseDayKey(key string) (time.Time, error) {
	return time.Parse(dayKeyLayout, key)
}

// EffectiveDay maps wall-clock time to the logical habit day. Hours
// before rolloverHour still belong to the previous calendar day, so a
// habit logged at 2 AM with a 4 AM rollover counts toward yesterday.
// rolloverHour is clamped to [0,23]; 0 reduces to plain local-date
// truncation. All date bucketing goes through this function.
func EffectiveDay(now time.Time, rolloverHour int) string {
	rolloverHour = ClampRolloverHour(rolloverHour)
	if now.Hour() < rolloverHour {
		now = now.AddDate(0, 0, -1)
	}
	return DayKey(now)
}

// ClampRolloverHour restricts a rollover hour to the valid 0-23 range.
func ClampRolloverHour(hour int) int {
	if hour < 0 {
		return 0
	}
	if hour > 23 {
		return 23
	}
	return hour
}

// Midnight truncates a timestamp to 00:00 of its calendar day, keeping
// the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Sunday starting the week containing t.
// Sunday is the fixed week start regardless of locale; recurrence skip
// weeks are anchored to calendar weeks, not to the anchor's weekday.
func WeekStart(t time.Time) time.Time {
	return Midnight(t).AddDate(0, 0, -int(t.Weekday()))
}

// DaysBetween counts whole calendar days from one date to another.
// Both dates are rebuilt at UTC midnight before dividing so a DST shift
// inside the span cannot produce a fractional day; the ceiling then
// only matters for fractional-day anchors, where it rounds up.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(f).Hours() / 24))
}

// WeeksBetween counts whole Sunday-aligned calendar weeks from one date
// to another.
func WeeksBetween(from, to time.Time) int {
	return DaysBetween(WeekStart(from), WeekStart(to)) / 7
}

// PastDays returns the n day keys ending at the reference date, oldest
// first. It backs the daily history charts.
func PastDays(n int, ref time.Time) []string {
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, DayKey(ref.AddDate(0, 0, -i)))
	}
	return keys
}

// PastWeeks returns n weeks of day keys, oldest week first, each week a
// run of 7 days with the last week ending at the reference date. It
// backs the weekly history charts.
func PastWeeks(n int, ref time.Time) [][]string {
	weeks := make([][]string, 0, n)
	for w := n - 1; w >= 0; w-- {
		end := ref.AddDate(0, 0, -w*7)
		week := make([]string, 0, 7)
		for d := 6; d >= 0; d-- {
			week = append(week, DayKey(end.AddDate(0, 0, -d)))
		}
		weeks = append(weeks, week)
	}
	return weeks
}
