package handler

import (
	"log/slog"
	"net/http"

	"github.com/leetboard/leetboard/internal/service"
)

// RoadmapHandler serves the group progress board.
type RoadmapHandler struct {
	svc    *service.RoadmapService
	logger *slog.Logger
}

// NewRoadmapHandler creates a new RoadmapHandler.
func NewRoadmapHandler(svc *service.RoadmapService, logger *slog.Logger) *RoadmapHandler {
	return &RoadmapHandler{
		svc:    svc,
		logger: logger,
	}
}

// Get handles GET /api/v1/roadmap.
func (h *RoadmapHandler) Get(w http.ResponseWriter, r *http.Request) {
	roadmap, cached, err := h.svc.Roadmap(r.Context())
	if err != nil {
		h.logger.Error("roadmap build failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	writeJSON(w, http.StatusOK, roadmap)
}
