package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

const defaultMaxRetries = 3

type habitRow struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	HabitType string `json:"habit_type"`
	Value     int    `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

// Client pushes habit history to a PostgREST habits table. Rows are
// upserted on (user_id, date, habit_type) so repeated syncs of the same
// history converge instead of duplicating.
type Client struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(baseURL, apiKey, userID string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: defaultMaxRetries,
	}
}

// SyncHistory upserts every (habit, day) pair in histories. The caller
// treats sync as best effort; an error here never blocks habit logging.
func (c *Client) SyncHistory(ctx context.Context, histories map[domain.HabitType]domain.History) error {
	now := time.Now().UTC().Format(time.RFC3339)

	var rows []habitRow
	for _, habit := range domain.HabitTypes {
		for dayKey, value := range histories[habit] {
			rows = append(rows, habitRow{
				UserID:    c.userID,
				Date:      dayKey,
				HabitType: habit.String(),
				Value:     value,
				UpdatedAt: now,
			})
		}
	}

	if len(rows) == 0 {
		return nil
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal habit rows: %w", err)
	}

	url := c.baseURL + "/rest/v1/habits?on_conflict=user_id,date,habit_type"

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create sync request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Prefer", "resolution=merge-duplicates")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("sync request failed: %w", err)
		} else {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				slog.DebugContext(ctx, "synced habit history",
					slog.Int("row_count", len(rows)),
				)
				return nil
			}
			lastErr = fmt.Errorf("sync request returned status %d: %s", resp.StatusCode, string(body))
		}

		if attempt < c.maxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("sync failed after %d attempts: %w", c.maxRetries, lastErr)
}
