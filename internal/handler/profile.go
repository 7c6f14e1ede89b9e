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

// ProfileHandler handles profile settings and sync trigger endpoints.
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		svc:    svc,
		logger: logger,
	}
}

// GetSettings handles GET /api/v1/settings.
func (h *ProfileHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	profile, err := h.svc.GetSettings(r.Context(), authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSettingsResponse(profile))
}

// UpdateSettings handles PUT /api/v1/settings.
func (h *ProfileHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	profile, err := h.svc.UpdateSettings(r.Context(), authCtx.UserID, service.UpdateSettingsInput{
		LeetcodeUsername: req.LeetcodeUsername,
		SessionCookie:    req.SessionCookie,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("profile settings updated",
		slog.String("profile_id", profile.ID),
		slog.String("leetcode_username", profile.LeetcodeUsername),
		slog.Bool("cookie_uploaded", req.SessionCookie != nil && *req.SessionCookie != ""),
	)

	writeJSON(w, http.StatusOK, dto.ToSettingsResponse(profile))
}

// TriggerSync handles POST /api/v1/sync. The sync runs asynchronously;
// a 202 means the job was queued, not that it finished.
func (h *ProfileHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.svc.TriggerSync(r.Context(), authCtx.UserID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
	})
}

// ListMembers handles GET /api/v1/members.
func (h *ProfileHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.ListMembers(r.Context())
	if err != nil {
		h.logger.Error("list members failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMemberListResponse(profiles))
}

// handleServiceError maps profile service errors to HTTP responses.
func (h *ProfileHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "No LeetCode profile linked yet")
	case errors.Is(err, service.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "INVALID_USERNAME", "Invalid LeetCode username")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "USERNAME_TAKEN", "LeetCode username already linked to another member")
	case errors.Is(err, service.ErrCookieTooLong):
		writeError(w, http.StatusBadRequest, "COOKIE_TOO_LONG", "Session cookie exceeds maximum length")
	case errors.Is(err, service.ErrSyncCooldown):
		writeError(w, http.StatusTooManyRequests, "SYNC_COOLDOWN", "Sync was triggered recently, try again later")
	default:
		h.logger.Error("internal_error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
