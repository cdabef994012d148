package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/habit"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/reminder"
)

type SettingsHandler struct {
	habits    *habit.Service
	reminders *reminder.Service
}

func NewSettingsHandler(habits *habit.Service, reminders *reminder.Service) *SettingsHandler {
	return &SettingsHandler{
		habits:    habits,
		reminders: reminders,
	}
}

func (h *SettingsHandler) HandleGetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.habits.Settings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load settings", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":        settings.Totals,
		"notifications": settings.ReminderHours,
		"rolloverHour":  settings.RolloverHour,
	})
}

type updateGoalsRequest struct {
	Totals map[domain.HabitType]int `json:"totals" binding:"required"`
}

func (h *SettingsHandler) HandleUpdateGoals(c *gin.Context) {
	ctx := c.Request.Context()

	var req updateGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.habits.UpdateGoals(ctx, req.Totals); err != nil {
		if errors.Is(err, domain.ErrInvalidHabitType) {
			respondError(c, http.StatusBadRequest, "unknown_habit", err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to update goals", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to update goals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

type updateRemindersRequest struct {
	Notifications map[domain.HabitType]int `json:"notifications" binding:"required"`
}

func (h *SettingsHandler) HandleUpdateReminders(c *gin.Context) {
	ctx := c.Request.Context()

	var req updateRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.habits.UpdateReminderHours(ctx, req.Notifications); err != nil {
		if errors.Is(err, domain.ErrInvalidHabitType) {
			respondError(c, http.StatusBadRequest, "unknown_habit", err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to update reminder intervals", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to update reminder intervals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

type updateRolloverRequest struct {
	RolloverHour *int `json:"rolloverHour" binding:"required"`
}

func (h *SettingsHandler) HandleUpdateRollover(c *gin.Context) {
	ctx := c.Request.Context()

	var req updateRolloverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.habits.UpdateRolloverHour(ctx, *req.RolloverHour); err != nil {
		slog.ErrorContext(ctx, "failed to update rollover hour", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to update rollover hour")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleRefreshReminders re-arms every habit reminder from stored state.
func (h *SettingsHandler) HandleRefreshReminders(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.reminders.RefreshAll(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to refresh reminders", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to refresh reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}
