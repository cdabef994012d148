package domain

import "errors"

var (
	ErrRuleNotFound     = errors.New("notification rule not found")
	ErrInvalidRuleData  = errors.New("invalid notification rule data")
	ErrInvalidHabitType = errors.New("invalid habit type")
	ErrInvalidDayKey    = errors.New("invalid day key")
)
