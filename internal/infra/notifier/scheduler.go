package notifier

import "context"

//go:generate mockgen -source=scheduler.go -destination=mock.go -package=notifier

// Scheduler is the three-operation contract with the platform
// notification store. The reconciler depends on nothing else; the
// backing implementation (push gateway, Cloud Tasks) is a deployment
// detail.
type Scheduler interface {
	ListScheduled(ctx context.Context) ([]ScheduledNotification, error)
	Cancel(ctx context.Context, identifier string) error
	Create(ctx context.Context, req *ScheduleRequest) error
}
