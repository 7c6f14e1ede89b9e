package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/leetboard/leetboard/internal/auth"
	"github.com/leetboard/leetboard/internal/handler/dto"
	"github.com/leetboard/leetboard/internal/middleware"
	"github.com/leetboard/leetboard/internal/model"
	"github.com/leetboard/leetboard/internal/repository"
)

// TokenHandler handles API token management endpoints.
type TokenHandler struct {
	logger     *slog.Logger
	repository *repository.Repository
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(logger *slog.Logger, repo *repository.Repository) *TokenHandler {
	return &TokenHandler{
		logger:     logger,
		repository: repo,
	}
}

// Create handles POST /api/v1/tokens
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := middleware.ValidateTokenName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_NAME", "Invalid token name")
		return
	}

	// Validate scopes
	for _, scope := range req.Scopes {
		if !slices.Contains(model.ValidScopes, scope) {
			writeError(w, http.StatusBadRequest, "INVALID_SCOPE",
				"Invalid scope: "+scope+". Valid scopes: read, write, admin")
			return
		}
	}

	// Default to read scope if none provided
	if len(req.Scopes) == 0 {
		req.Scopes = []string{model.ScopeRead}
	}

	generated, err := auth.GenerateToken(auth.EnvLive)
	if err != nil {
		h.logger.Error("failed to generate token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate token")
		return
	}

	token := &model.APIToken{
		ID:            ulid.Make().String(),
		UserID:        authCtx.UserID,
		TokenHash:     generated.Hash,
		TokenPrefix:   generated.Prefix,
		Scopes:        req.Scopes,
		RateLimitTier: model.TierFree,
		Name:          req.Name,
		CreatedAt:     time.Now(),
	}

	if err := h.repository.CreateToken(ctx, token); err != nil {
		h.logger.Error("failed to create token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create token")
		return
	}

	h.logger.Info("token created",
		slog.String("token_id", token.ID),
		slog.String("token_prefix", token.TokenPrefix),
		slog.String("user_id", token.UserID),
	)

	// Plaintext is shown once only
	writeJSON(w, http.StatusCreated, dto.CreateTokenResponse{
		ID:            token.ID,
		Token:         generated.Plaintext,
		Name:          token.Name,
		TokenPrefix:   token.TokenPrefix,
		Scopes:        token.Scopes,
		RateLimitTier: token.RateLimitTier,
		CreatedAt:     token.CreatedAt,
	})
}

// List handles GET /api/v1/tokens
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tokens, err := h.repository.ListTokensByUserID(ctx, authCtx.UserID)
	if err != nil {
		h.logger.Error("failed to list tokens", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tokens")
		return
	}

	responses := make([]dto.TokenResponse, 0, len(tokens))
	for _, token := range tokens {
		responses = append(responses, dto.ToTokenResponse(token))
	}

	writeJSON(w, http.StatusOK, dto.TokenListResponse{Tokens: responses})
}

// Revoke handles DELETE /api/v1/tokens/{token_id}
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tokenID := chi.URLParam(r, "token_id")
	if tokenID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Token ID is required")
		return
	}

	token, err := h.repository.GetTokenByID(ctx, tokenID)
	if err != nil {
		// Return 404 for both not found and already revoked (security)
		writeError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found or already revoked")
		return
	}

	if token.UserID != authCtx.UserID {
		// Return 404 to prevent enumeration
		writeError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found or already revoked")
		return
	}

	if token.IsRevoked() {
		writeError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found or already revoked")
		return
	}

	if err := h.repository.RevokeToken(ctx, tokenID); err != nil {
		h.logger.Error("failed to revoke token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke token")
		return
	}

	h.logger.Info("token revoked",
		slog.String("token_id", tokenID),
		slog.String("user_id", authCtx.UserID),
	)

	w.WriteHeader(http.StatusNoContent)
}

// Rotate handles POST /api/v1/tokens/{token_id}/rotate
func (h *TokenHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tokenID := chi.URLParam(r, "token_id")
	if tokenID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Token ID is required")
		return
	}

	oldToken, err := h.repository.GetTokenByID(ctx, tokenID)
	if err != nil {
		writeError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found")
		return
	}

	if oldToken.UserID != authCtx.UserID {
		writeError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found")
		return
	}

	if oldToken.IsRevoked() {
		writeError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found or already revoked")
		return
	}

	generated, err := auth.GenerateToken(auth.EnvLive)
	if err != nil {
		h.logger.Error("failed to generate token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate token")
		return
	}

	now := time.Now()

	newToken := &model.APIToken{
		ID:            ulid.Make().String(),
		UserID:        oldToken.UserID,
		TokenHash:     generated.Hash,
		TokenPrefix:   generated.Prefix,
		Scopes:        oldToken.Scopes,
		RateLimitTier: oldToken.RateLimitTier,
		Name:          oldToken.Name,
		CreatedAt:     now,
	}

	// Create new token first
	if err := h.repository.CreateToken(ctx, newToken); err != nil {
		h.logger.Error("failed to create rotated token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rotate token")
		return
	}

	if err := h.repository.RevokeToken(ctx, oldToken.ID); err != nil {
		h.logger.Error("failed to revoke old token during rotation", slog.String("error", err.Error()))
		// Continue - new token is already created
	}

	h.logger.Info("token rotated",
		slog.String("old_token_id", oldToken.ID),
		slog.String("new_token_id", newToken.ID),
		slog.String("user_id", authCtx.UserID),
	)

	writeJSON(w, http.StatusCreated, dto.RotateTokenResponse{
		OldTokenID:        oldToken.ID,
		OldTokenRevokedAt: now,
		NewToken: dto.CreateTokenResponse{
			ID:            newToken.ID,
			Token:         generated.Plaintext,
			Name:          newToken.Name,
			TokenPrefix:   newToken.TokenPrefix,
			Scopes:        newToken.Scopes,
			RateLimitTier: newToken.RateLimitTier,
			CreatedAt:     newToken.CreatedAt,
		},
	})
}
