package reconcile

import (
	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

// Diff is the set of platform mutations that move the scheduled state
// to what the current rules require. Cancellations are applied before
// creations so a re-created identifier never races its stale copy.
type Diff struct {
	ToCancel []string
	ToCreate []domain.ScheduledInstant

	// Computed is the total number of instants the rules require inside
	// the horizon, whether or not they already exist on the platform.
	Computed int
}

// Result summarizes one reconciliation pass. Failed counts cover
// per-item errors that were logged and skipped, not pass aborts.
type Result struct {
	RuleCount    int
	Computed     int
	Cancelled    int
	Created      int
	FailedCancel int
	FailedCreate int
}
