package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peregrinehq/habitloop-scheduler/internal/service/reconcile"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/reminder"
)

type ReconcileHandler struct {
	reconciler *reconcile.Service
	reminders  *reminder.Service
}

// NewReconcileHandler wires the on-demand reconcile trigger. reminders
// may be nil; the trigger then only reconciles rule firings.
func NewReconcileHandler(reconciler *reconcile.Service, reminders *reminder.Service) *ReconcileHandler {
	return &ReconcileHandler{
		reconciler: reconciler,
		reminders:  reminders,
	}
}

// HandleReconcile runs one reconciliation pass on demand. The app host
// fires it on foregrounding, so the pass also re-arms the interval
// reminders from stored state.
func (h *ReconcileHandler) HandleReconcile(c *gin.Context) {
	ctx := c.Request.Context()

	if h.reminders != nil {
		if err := h.reminders.RefreshAll(ctx); err != nil {
			slog.WarnContext(ctx, "reminder refresh during reconcile failed",
				slog.String("error", err.Error()),
			)
		}
	}

	result, err := h.reconciler.Reconcile(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "reconciliation pass failed", slog.String("error", err.Error()))
		respondError(c, http.StatusBadGateway, "reconcile_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rule_count":    result.RuleCount,
		"computed":      result.Computed,
		"created":       result.Created,
		"cancelled":     result.Cancelled,
		"failed_create": result.FailedCreate,
		"failed_cancel": result.FailedCancel,
	})
}
