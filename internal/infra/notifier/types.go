package notifier

import "time"

// ScheduledNotification is one entry currently present in the platform
// notification store.
type ScheduledNotification struct {
	Identifier string    `json:"identifier"`
	FireAt     time.Time `json:"fire_at"`
}

// ScheduleRequest submits one notification to the platform under a
// caller-chosen identifier. Submitting an identifier that already exists
// replaces the previous entry, which keeps individual creates idempotent.
type ScheduleRequest struct {
	Identifier string    `json:"-"`
	FireAt     time.Time `json:"-"`

	Title string `json:"title"`
	Body  string `json:"body"`
	Color string `json:"color"` // hex color code e.g. "#EF4444"
}

type gatewayTaskRequest struct {
	Task gatewayTask `json:"task"`
}

type gatewayTask struct {
	Name         string             `json:"name"`
	HTTPRequest  gatewayHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type gatewayHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type gatewayTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
}

type gatewayListResponse struct {
	Tasks []gatewayTaskResponse `json:"tasks"`
}
