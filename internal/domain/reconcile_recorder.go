package domain

import (
	"context"
	"time"
)

// ReconcilePassRecord summarizes one reconciliation pass for analysis.
type ReconcilePassRecord struct {
	RunID          string
	StartedAt      time.Time
	RuleCount      int
	ComputedCount  int
	CreatedCount   int
	CancelledCount int
	FailedCreate   int
	FailedCancel   int
	Duration       time.Duration
}

// ReconcileResultRecorder records reconciliation outcomes to an analytics
// backend. Recording is best effort and never affects reconciliation.
type ReconcileResultRecorder interface {
	RecordPass(ctx context.Context, record ReconcilePassRecord) error
	Flush(ctx context.Context) error
	Close() error
}
