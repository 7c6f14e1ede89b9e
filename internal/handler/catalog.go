package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leetboard/leetboard/internal/handler/dto"
	"github.com/leetboard/leetboard/internal/middleware"
	"github.com/leetboard/leetboard/internal/service"
)

// CatalogHandler handles problem catalog endpoints.
type CatalogHandler struct {
	svc    *service.CatalogService
	logger *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/problems.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	problems, err := h.svc.ListProblems(r.Context())
	if err != nil {
		h.logger.Error("list problems failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProblemListResponse{
		Problems: problems,
		Count:    len(problems),
	})
}

// Get handles GET /api/v1/problems/{slug}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := middleware.ValidateSlugParam(slug); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SLUG", "Invalid problem slug")
		return
	}

	problem, err := h.svc.GetProblem(r.Context(), slug)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, problem)
}

// Import handles POST /api/v1/problems/import.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := make(service.ImportInput, len(req))
	for topic, problems := range req {
		entries := make([]service.ImportProblem, len(problems))
		for i, p := range problems {
			entries[i] = service.ImportProblem{
				Slug:       p.Slug,
				Title:      p.Title,
				Difficulty: p.Difficulty,
			}
		}
		input[topic] = entries
	}

	result, err := h.svc.Import(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("catalog imported",
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
	)

	writeJSON(w, http.StatusOK, dto.ImportResponse{
		Created: result.Created,
		Updated: result.Updated,
	})
}

// handleServiceError maps catalog service errors to HTTP responses.
func (h *CatalogHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProblemNotFound):
		writeError(w, http.StatusNotFound, "PROBLEM_NOT_FOUND", "Problem not found")
	case errors.Is(err, service.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, "INVALID_SLUG", err.Error())
	case errors.Is(err, service.ErrMissingTitle):
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", err.Error())
	case errors.Is(err, service.ErrInvalidDifficulty):
		writeError(w, http.StatusBadRequest, "INVALID_DIFFICULTY", err.Error())
	case errors.Is(err, service.ErrMissingTopic):
		writeError(w, http.StatusBadRequest, "MISSING_TOPIC", err.Error())
	case errors.Is(err, service.ErrEmptyImport):
		writeError(w, http.StatusBadRequest, "EMPTY_IMPORT", err.Error())
	default:
		h.logger.Error("internal_error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
