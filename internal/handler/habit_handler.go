package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/habit"
)

type HabitHandler struct {
	habits *habit.Service
}

func NewHabitHandler(habits *habit.Service) *HabitHandler {
	return &HabitHandler{
		habits: habits,
	}
}

func habitParam(c *gin.Context) (domain.HabitType, bool) {
	habitType := domain.HabitType(c.Param("type"))
	if !habitType.IsValid() {
		respondError(c, http.StatusNotFound, "unknown_habit", "unknown habit type")
		return "", false
	}
	return habitType, true
}

type logHabitRequest struct {
	Value int `json:"value" binding:"min=0"`
}

func (h *HabitHandler) HandleLog(c *gin.Context) {
	ctx := c.Request.Context()

	habitType, ok := habitParam(c)
	if !ok {
		return
	}

	var req logHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	day, err := h.habits.Log(ctx, habitType, req.Value)
	if err != nil {
		slog.ErrorContext(ctx, "failed to log habit",
			slog.String("habit", habitType.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to log habit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit": habitType,
		"day":   day,
		"value": req.Value,
	})
}

func (h *HabitHandler) HandleToday(c *gin.Context) {
	ctx := c.Request.Context()

	day, counts, err := h.habits.Today(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read today's counts", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to read today's counts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":    day,
		"counts": counts,
	})
}

func (h *HabitHandler) HandleHistory(c *gin.Context) {
	ctx := c.Request.Context()

	habitType, ok := habitParam(c)
	if !ok {
		return
	}

	history, err := h.habits.History(ctx, habitType)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read history",
			slog.String("habit", habitType.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to read history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit":   habitType,
		"history": history,
	})
}

type editHistoryRequest struct {
	Value int `json:"value" binding:"min=0"`
}

func (h *HabitHandler) HandleEditHistory(c *gin.Context) {
	ctx := c.Request.Context()

	habitType, ok := habitParam(c)
	if !ok {
		return
	}
	day := c.Param("day")

	var req editHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.habits.EditHistory(ctx, habitType, day, req.Value); err != nil {
		if errors.Is(err, domain.ErrInvalidDayKey) {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid day, expected YYYY-MM-DD")
			return
		}
		slog.ErrorContext(ctx, "failed to edit history",
			slog.String("habit", habitType.String()),
			slog.String("day", day),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to edit history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit": habitType,
		"day":   day,
		"value": req.Value,
	})
}

type editDayRequest struct {
	Counts map[domain.HabitType]int `json:"counts" binding:"required"`
}

// HandleEditDay overwrites one day's counts for several habits at once.
func (h *HabitHandler) HandleEditDay(c *gin.Context) {
	ctx := c.Request.Context()
	day := c.Param("day")

	var req editDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	for habitType := range req.Counts {
		if !habitType.IsValid() {
			respondError(c, http.StatusBadRequest, "unknown_habit", "unknown habit type: "+habitType.String())
			return
		}
	}

	if err := h.habits.EditDay(ctx, day, req.Counts); err != nil {
		if errors.Is(err, domain.ErrInvalidDayKey) {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid day, expected YYYY-MM-DD")
			return
		}
		slog.ErrorContext(ctx, "failed to edit day",
			slog.String("day", day),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to edit day")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":    day,
		"counts": req.Counts,
	})
}

func (h *HabitHandler) HandleDailySeries(c *gin.Context) {
	ctx := c.Request.Context()

	habitType, ok := habitParam(c)
	if !ok {
		return
	}

	numDays := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "days must be a positive integer")
			return
		}
		numDays = parsed
	}

	points, err := h.habits.DailySeries(ctx, habitType, numDays)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build daily series",
			slog.String("habit", habitType.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to build series")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit":  habitType,
		"series": points,
	})
}

func (h *HabitHandler) HandleWeeklySeries(c *gin.Context) {
	ctx := c.Request.Context()

	habitType, ok := habitParam(c)
	if !ok {
		return
	}

	numWeeks := 4
	if v := c.Query("weeks"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "weeks must be a positive integer")
			return
		}
		numWeeks = parsed
	}

	points, err := h.habits.WeeklySeries(ctx, habitType, numWeeks)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build weekly series",
			slog.String("habit", habitType.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to build series")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit":  habitType,
		"series": points,
	})
}

func (h *HabitHandler) HandleSync(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.habits.Sync(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to sync habit history", slog.String("error", err.Error()))
		respondError(c, http.StatusBadGateway, "sync_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"synced": true})
}
