package config

import (
	"os"
	"strconv"
)

const (
	horizonDaysEnv   = "HORIZON_DAYS"
	reconcileCronEnv = "RECONCILE_CRON"

	defaultHorizonDays = 30
	// Every 15 minutes keeps the horizon's trailing edge fresh without
	// hammering the notification platform.
	defaultReconcileCron = "*/15 * * * *"
)

type ScheduleConfig struct {
	HorizonDays   int
	ReconcileCron string
}

func LoadScheduleConfig() *ScheduleConfig {
	horizon := defaultHorizonDays
	if v := os.Getenv(horizonDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			horizon = parsed
		}
	}

	cron := os.Getenv(reconcileCronEnv)
	if cron == "" {
		cron = defaultReconcileCron
	}

	return &ScheduleConfig{
		HorizonDays:   horizon,
		ReconcileCron: cron,
	}
}
