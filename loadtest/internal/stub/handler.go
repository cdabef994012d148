package stub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultQueue = "default"

// Handler serves the subset of the push gateway's task API that the
// scheduler exercises: list, create, and cancel, per queue. Load runs
// point the scheduler at this stub instead of a real gateway.
type Handler struct {
	storage *TaskStorage
}

func NewHandler(storage *TaskStorage) *Handler {
	return &Handler{storage: storage}
}

// Register mounts the stub routes on the router.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/tasks", h.HandleListTasks)
	r.POST("/tasks", h.HandleCreateTask)
	r.DELETE("/tasks/:name", h.HandleDeleteTask)

	r.GET("/tasks/:queue", h.HandleListTasks)
	r.POST("/tasks/:queue", h.HandleCreateTask)
	r.DELETE("/tasks/:queue/:name", h.HandleDeleteTask)

	r.POST("/reset", h.HandleReset)
}

func (h *Handler) queue(c *gin.Context) string {
	if q := c.Param("queue"); q != "" {
		return q
	}
	return defaultQueue
}

func (h *Handler) HandleListTasks(c *gin.Context) {
	queue := h.queue(c)
	tasks := h.storage.List(queue)

	slog.Debug("listed tasks",
		slog.String("queue", queue),
		slog.Int("count", len(tasks)),
	)

	c.JSON(http.StatusOK, TaskListResponse{
		Tasks: tasks,
		Count: len(tasks),
	})
}

func (h *Handler) HandleCreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Task.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task name is required"})
		return
	}

	if req.Task.ScheduleTime != "" {
		if _, err := time.Parse(time.RFC3339, req.Task.ScheduleTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_time: " + req.Task.ScheduleTime})
			return
		}
	}

	queue := h.queue(c)
	h.storage.Put(queue, req.Task)

	slog.Info("task created",
		slog.String("queue", queue),
		slog.String("name", req.Task.Name),
		slog.String("schedule_time", req.Task.ScheduleTime),
	)

	c.JSON(http.StatusCreated, req.Task)
}

func (h *Handler) HandleDeleteTask(c *gin.Context) {
	queue := h.queue(c)
	name := c.Param("name")

	if !h.storage.Delete(queue, name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	slog.Info("task deleted",
		slog.String("queue", queue),
		slog.String("name", name),
	)

	c.Status(http.StatusNoContent)
}

func (h *Handler) HandleReset(c *gin.Context) {
	if queue := c.Query("queue"); queue != "" {
		h.storage.Reset(queue)
		c.JSON(http.StatusOK, gin.H{"status": "reset complete", "queue": queue})
		return
	}

	h.storage.ResetAll()
	c.JSON(http.StatusOK, gin.H{"status": "reset complete"})
}
