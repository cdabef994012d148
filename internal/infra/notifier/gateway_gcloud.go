//go:build gcloud

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CloudTasksScheduler backs the notification store with a Cloud Tasks
// queue. Task names carry the deterministic identifiers, so list/cancel
// round-trips preserve the reconciliation keys bit-exact.
type CloudTasksScheduler struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksScheduler(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksScheduler, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksScheduler{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (c *CloudTasksScheduler) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		c.projectID, c.locationID, c.queueID)
}

func (c *CloudTasksScheduler) taskPath(identifier string) string {
	return fmt.Sprintf("%s/tasks/%s", c.queuePath(), identifier)
}

func (c *CloudTasksScheduler) ListScheduled(ctx context.Context) ([]ScheduledNotification, error) {
	it := c.client.ListTasks(ctx, &taskspb.ListTasksRequest{
		Parent: c.queuePath(),
	})

	var scheduled []ScheduledNotification
	for {
		task, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}

		identifier := task.Name
		if idx := strings.LastIndex(task.Name, "/"); idx >= 0 {
			identifier = task.Name[idx+1:]
		}

		var fireAt time.Time
		if task.ScheduleTime != nil {
			fireAt = task.ScheduleTime.AsTime()
		}

		scheduled = append(scheduled, ScheduledNotification{
			Identifier: identifier,
			FireAt:     fireAt,
		})
	}

	slog.DebugContext(ctx, "listed scheduled notifications from Cloud Tasks",
		slog.Int("count", len(scheduled)),
	)

	return scheduled, nil
}

func (c *CloudTasksScheduler) Create(ctx context.Context, schedReq *ScheduleRequest) error {
	payload, err := json.Marshal(schedReq)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule request: %w", err)
	}

	cloudTask := &taskspb.Task{
		Name: c.taskPath(schedReq.Identifier),
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: payload,
			},
		},
	}
	if !schedReq.FireAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(schedReq.FireAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath(),
		Task:   cloudTask,
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification creation",
				slog.String("identifier", schedReq.Identifier),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.createTask(ctx, req, schedReq.Identifier)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification creation",
		slog.String("identifier", schedReq.Identifier),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to create notification after %d retries: %w", c.maxRetries, lastErr)
}

func (c *CloudTasksScheduler) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, identifier string) error {
	slog.Debug("creating notification on Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.String("identifier", identifier),
	)

	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		// A task with this name already exists: the instant is already
		// scheduled, which is exactly the converged state.
		if status.Code(err) == codes.AlreadyExists {
			slog.Debug("notification already scheduled on Cloud Tasks",
				slog.String("identifier", identifier),
			)
			return nil
		}
		slog.Warn("failed to create cloud task",
			slog.String("identifier", identifier),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.Info("notification scheduled on Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("identifier", identifier),
	)

	return nil
}

func (c *CloudTasksScheduler) Cancel(ctx context.Context, identifier string) error {
	taskPath := c.taskPath(identifier)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification cancellation",
				slog.String("identifier", identifier),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.deleteTask(ctx, taskPath, identifier)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification cancellation",
		slog.String("identifier", identifier),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to cancel notification after %d retries: %w", c.maxRetries, lastErr)
}

func (c *CloudTasksScheduler) deleteTask(ctx context.Context, taskPath, identifier string) error {
	err := c.client.DeleteTask(ctx, &taskspb.DeleteTaskRequest{
		Name: taskPath,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			slog.Info("notification not found on Cloud Tasks (may have already fired)",
				slog.String("identifier", identifier),
			)
			return nil
		}
		slog.Warn("failed to delete cloud task",
			slog.String("identifier", identifier),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete cloud task: %w", err)
	}

	return nil
}

func (c *CloudTasksScheduler) Close() error {
	return c.client.Close()
}
