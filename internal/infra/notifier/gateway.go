//go:build !gcloud

package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
)

// GatewayClient talks to the push-gateway notification store over HTTP.
type GatewayClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

func NewGatewayClient(baseURL, queueName string, maxRetries int) *GatewayClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &GatewayClient{
		baseURL:   baseURL,
		queueName: queueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *GatewayClient) tasksURL() string {
	if c.queueName != "" && c.queueName != "default" {
		return fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}
	return fmt.Sprintf("%s/tasks", c.baseURL)
}

func (c *GatewayClient) ListScheduled(ctx context.Context) ([]ScheduledNotification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tasksURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled notifications: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var listResp gatewayListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduled := make([]ScheduledNotification, 0, len(listResp.Tasks))
	for _, task := range listResp.Tasks {
		fireAt, _ := time.Parse(time.RFC3339, task.ScheduleTime)
		scheduled = append(scheduled, ScheduledNotification{
			Identifier: task.Name,
			FireAt:     fireAt,
		})
	}

	slog.DebugContext(ctx, "listed scheduled notifications from gateway",
		slog.Int("count", len(scheduled)),
	)

	return scheduled, nil
}

func (c *GatewayClient) Create(ctx context.Context, schedReq *ScheduleRequest) error {
	payload, err := json.Marshal(schedReq)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule request: %w", err)
	}

	gatewayReq := gatewayTaskRequest{
		Task: gatewayTask{
			Name: schedReq.Identifier,
			HTTPRequest: gatewayHTTPRequest{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}
	if !schedReq.FireAt.IsZero() {
		gatewayReq.Task.ScheduleTime = schedReq.FireAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(gatewayReq)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway request: %w", err)
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

		if err := c.doCreate(ctx, reqBody, schedReq.Identifier); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	slog.Error("all retries exhausted for notification creation",
		slog.String("identifier", schedReq.Identifier),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to create notification after %d retries: %w", c.maxRetries, lastErr)
}

func (c *GatewayClient) doCreate(ctx context.Context, reqBody []byte, identifier string) error {
	slog.Debug("creating notification on gateway",
		slog.String("url", c.tasksURL()),
		slog.String("identifier", identifier),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tasksURL(), bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send request to gateway",
			slog.String("identifier", identifier),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Warn("unexpected status code from gateway",
			slog.String("identifier", identifier),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

func (c *GatewayClient) Cancel(ctx context.Context, identifier string) error {
	u := fmt.Sprintf("%s/%s", c.tasksURL(), url.PathEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to cancel notification: %w", err)
	}
	defer resp.Body.Close()

	// A missing entry means the notification already fired or was never
	// scheduled; cancellation converges either way.
	if resp.StatusCode == http.StatusNotFound {
		slog.Info("notification not found on gateway (may have already fired)",
			slog.String("identifier", identifier),
		)
		return nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
