package repository

import "errors"

var (
	ErrRedisConnection  = errors.New("redis connection error")
	ErrInvalidRuleData  = errors.New("invalid rule data")
	ErrInvalidHabitData = errors.New("invalid habit data")
)
