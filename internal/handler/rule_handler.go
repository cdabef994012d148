package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/reconcile"
)

type RuleHandler struct {
	rules      domain.RuleRepository
	reconciler *reconcile.Service
}

func NewRuleHandler(rules domain.RuleRepository, reconciler *reconcile.Service) *RuleHandler {
	return &RuleHandler{
		rules:      rules,
		reconciler: reconciler,
	}
}

type createRuleRequest struct {
	Title         string `json:"title" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Days          []int  `json:"days"`
	ColorHue      int    `json:"colorHue"`
	RepeatType    string `json:"repeatType"`
	RepeatWeeks   int    `json:"repeatFrequencyWeeks"`
	IterationDays int    `json:"iterationFrequencyDays"`
}

type ruleResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Time          string `json:"time"`
	Anchor        string `json:"startDates"`
	Days          []int  `json:"days"`
	ColorHue      int    `json:"colorHue"`
	RepeatType    string `json:"repeatType"`
	RepeatWeeks   int    `json:"repeatFrequencyWeeks"`
	IterationDays int    `json:"iterationFrequencyDays"`
}

func toRuleResponse(rule domain.NotificationRule) ruleResponse {
	days := make([]int, 0, len(rule.Days))
	for _, d := range rule.Days {
		days = append(days, int(d))
	}
	return ruleResponse{
		ID:            rule.ID,
		Title:         rule.Title,
		Time:          fmt.Sprintf("%02d:%02d", rule.Hour, rule.Minute),
		Anchor:        rule.Anchor.UTC().Format(time.RFC3339),
		Days:          days,
		ColorHue:      rule.ColorHue,
		RepeatType:    rule.Mode.String(),
		RepeatWeeks:   rule.RepeatWeeks,
		IterationDays: rule.IterationDays,
	}
}

func (h *RuleHandler) HandleCreateRule(c *gin.Context) {
	ctx := c.Request.Context()

	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	fireTime, err := time.Parse("15:04", req.Time)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid time, expected HH:MM")
		return
	}

	days := make([]time.Weekday, 0, len(req.Days))
	for _, d := range req.Days {
		if d < 0 || d > 6 {
			respondError(c, http.StatusBadRequest, "validation_error", "days must be in 0-6, Sunday is 0")
			return
		}
		days = append(days, time.Weekday(d))
	}

	rule := domain.NotificationRule{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Hour:          fireTime.Hour(),
		Minute:        fireTime.Minute(),
		Anchor:        time.Now(),
		ColorHue:      req.ColorHue,
		Mode:          domain.RepeatMode(req.RepeatType),
		Days:          days,
		RepeatWeeks:   req.RepeatWeeks,
		IterationDays: req.IterationDays,
	}.Normalized()

	existing, err := h.rules.ListRules(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load rules", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load rules")
		return
	}

	if err := h.rules.SaveRules(ctx, append(existing, rule)); err != nil {
		slog.ErrorContext(ctx, "failed to save rules", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save rules")
		return
	}

	slog.InfoContext(ctx, "created notification rule",
		slog.String("rule_id", rule.ID),
		slog.String("mode", rule.Mode.String()),
	)

	h.triggerReconcile(ctx)

	c.JSON(http.StatusCreated, toRuleResponse(rule))
}

func (h *RuleHandler) HandleListRules(c *gin.Context) {
	ctx := c.Request.Context()

	rules, err := h.rules.ListRules(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load rules", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load rules")
		return
	}

	responses := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, toRuleResponse(rule))
	}
	c.JSON(http.StatusOK, gin.H{"rules": responses})
}

func (h *RuleHandler) HandleDeleteRule(c *gin.Context) {
	ctx := c.Request.Context()
	ruleID := c.Param("id")

	rules, err := h.rules.ListRules(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load rules", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load rules")
		return
	}

	remaining := make([]domain.NotificationRule, 0, len(rules))
	found := false
	for _, rule := range rules {
		if rule.ID == ruleID {
			found = true
			continue
		}
		remaining = append(remaining, rule)
	}
	if !found {
		respondError(c, http.StatusNotFound, "not_found", "rule not found")
		return
	}

	if err := h.rules.SaveRules(ctx, remaining); err != nil {
		slog.ErrorContext(ctx, "failed to save rules", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save rules")
		return
	}

	slog.InfoContext(ctx, "deleted notification rule", slog.String("rule_id", ruleID))

	h.triggerReconcile(ctx)

	c.JSON(http.StatusOK, gin.H{"deleted": ruleID})
}

// HandleResetRules deletes every rule; reconciliation then cancels all
// their scheduled firings.
func (h *RuleHandler) HandleResetRules(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.rules.SaveRules(ctx, nil); err != nil {
		slog.ErrorContext(ctx, "failed to reset rules", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to reset rules")
		return
	}

	slog.InfoContext(ctx, "reset notification rules")

	h.triggerReconcile(ctx)

	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// triggerReconcile runs a pass so the platform converges right after a
// rule mutation instead of waiting for the periodic trigger. Failures
// are logged; the next periodic pass retries.
func (h *RuleHandler) triggerReconcile(ctx context.Context) {
	if h.reconciler == nil {
		return
	}
	if _, err := h.reconciler.Reconcile(ctx); err != nil {
		slog.WarnContext(ctx, "reconciliation after rule change failed",
			slog.String("error", err.Error()),
		)
	}
}
