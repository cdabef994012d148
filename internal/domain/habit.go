package domain

// HabitType identifies one of the tracked daily habits. The set is
// closed; there is no user-defined habit extensibility.
type HabitType string

const (
	HabitWater   HabitType = "water"
	HabitFood    HabitType = "food"
	HabitWorkout HabitType = "workout"
	HabitStretch HabitType = "stretch"
	HabitRacing  HabitType = "racing"
)

// HabitTypes lists every tracked habit in display order.
var HabitTypes = []HabitType{HabitWater, HabitFood, HabitWorkout, HabitStretch, HabitRacing}

func (t HabitType) String() string {
	return string(t)
}

func (t HabitType) IsValid() bool {
	switch t {
	case HabitWater, HabitFood, HabitWorkout, HabitStretch, HabitRacing:
		return true
	}
	return false
}

// History maps day keys (YYYY-MM-DD) to the logged count for one habit.
type History map[string]int

// DayCounts holds one effective day's counts across all habits.
type DayCounts map[HabitType]int

// Settings are the user's habit preferences: daily goal totals, reminder
// intervals in hours (zero or negative disables the reminder), and the
// hour at which the logical day rolls over.
type Settings struct {
	Totals        map[HabitType]int
	ReminderHours map[HabitType]int
	RolloverHour  int
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() *Settings {
	return &Settings{
		Totals: map[HabitType]int{
			HabitWater:   8,
			HabitFood:    3,
			HabitWorkout: 30,
			HabitStretch: 2,
			HabitRacing:  1,
		},
		ReminderHours: map[HabitType]int{
			HabitWater:   2,
			HabitFood:    4,
			HabitWorkout: 16,
			HabitStretch: 6,
			HabitRacing:  -1,
		},
		RolloverHour: 0,
	}
}

// Normalized fills fields missing from settings persisted by older
// versions with their defaults and clamps the rollover hour. Loading
// never fails on partial data.
func (s *Settings) Normalized() *Settings {
	defaults := DefaultSettings()
	if s == nil {
		return defaults
	}
	if s.Totals == nil {
		s.Totals = make(map[HabitType]int, len(defaults.Totals))
	}
	if s.ReminderHours == nil {
		s.ReminderHours = make(map[HabitType]int, len(defaults.ReminderHours))
	}
	for _, t := range HabitTypes {
		if _, ok := s.Totals[t]; !ok {
			s.Totals[t] = defaults.Totals[t]
		}
		if _, ok := s.ReminderHours[t]; !ok {
			s.ReminderHours[t] = defaults.ReminderHours[t]
		}
	}
	s.RolloverHour = ClampRolloverHour(s.RolloverHour)
	return s
}
