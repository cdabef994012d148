package recorder

import (
	"context"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ReconcileResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordPass(_ context.Context, _ domain.ReconcilePassRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
