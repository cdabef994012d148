package stub

// Task mirrors the push gateway's task shape. Body carries the
// base64-encoded notification payload as submitted by the client.
type Task struct {
	Name         string      `json:"name"`
	ScheduleTime string      `json:"scheduleTime,omitempty"`
	HTTPRequest  HTTPRequest `json:"httpRequest"`
}

type HTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type TaskRequest struct {
	Task Task `json:"task"`
}

type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
	Count int    `json:"count"`
}
