package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/leetboard/leetboard/internal/auth"
	"github.com/leetboard/leetboard/internal/handler/dto"
	"github.com/leetboard/leetboard/internal/service"
)

// GoalHandler handles weekly goal endpoints.
type GoalHandler struct {
	svc    *service.GoalService
	logger *slog.Logger
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(svc *service.GoalService, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{
		svc:    svc,
		logger: logger,
	}
}

// Current handles GET /api/v1/goals/current.
func (h *GoalHandler) Current(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	goal, err := h.svc.CurrentGoal(r.Context(), authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// SetCurrent handles PUT /api/v1/goals/current.
func (h *GoalHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	goal, err := h.svc.SetCurrentGoal(r.Context(), authCtx.UserID, req.Slugs)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("weekly goal pledged",
		slog.String("profile_id", goal.Goal.ProfileID),
		slog.Int("pledged", len(goal.Goal.Slugs)),
	)

	writeJSON(w, http.StatusOK, goal)
}

// List handles GET /api/v1/goals.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	goals, err := h.svc.ListGoals(r.Context(), authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"goals": goals,
		"count": len(goals),
	})
}

// handleServiceError maps goal service errors to HTTP responses.
func (h *GoalHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "GOAL_NOT_FOUND", "No goal set for this week")
	case errors.Is(err, service.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "No LeetCode profile linked yet")
	case errors.Is(err, service.ErrNoSlugs):
		writeError(w, http.StatusBadRequest, "NO_SLUGS", "At least one problem must be pledged")
	case errors.Is(err, service.ErrTooManySlugs):
		writeError(w, http.StatusBadRequest, "TOO_MANY_SLUGS", "Too many problems pledged for one week")
	case errors.Is(err, service.ErrDuplicateSlug):
		writeError(w, http.StatusBadRequest, "DUPLICATE_SLUG", "Pledged problems must be unique")
	case errors.Is(err, service.ErrUnknownSlug):
		writeError(w, http.StatusUnprocessableEntity, "UNKNOWN_SLUG", err.Error())
	default:
		h.logger.Error("internal_error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
