package dto

import (
	"time"

	"github.com/leetboard/leetboard/internal/model"
)

// CreateTokenRequest represents the request body for creating an API token.
type CreateTokenRequest struct {
	Name   string   `json:"name,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// TokenResponse represents an API token without its secret.
type TokenResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name,omitempty"`
	TokenPrefix   string     `json:"token_prefix"`
	Scopes        []string   `json:"scopes"`
	RateLimitTier string     `json:"rate_limit_tier"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateTokenResponse includes the plaintext token, shown exactly once.
type CreateTokenResponse struct {
	ID            string    `json:"id"`
	Token         string    `json:"token"`
	Name          string    `json:"name,omitempty"`
	TokenPrefix   string    `json:"token_prefix"`
	Scopes        []string  `json:"scopes"`
	RateLimitTier string    `json:"rate_limit_tier"`
	CreatedAt     time.Time `json:"created_at"`
}

// RotateTokenResponse describes the outcome of a token rotation.
type RotateTokenResponse struct {
	OldTokenID        string              `json:"old_token_id"`
	OldTokenRevokedAt time.Time           `json:"old_token_revoked_at"`
	NewToken          CreateTokenResponse `json:"new_token"`
}

// TokenListResponse wraps a token listing.
type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}

// ToTokenResponse converts an APIToken model to TokenResponse DTO.
func ToTokenResponse(t *model.APIToken) TokenResponse {
	return TokenResponse{
		ID:            t.ID,
		Name:          t.Name,
		TokenPrefix:   t.TokenPrefix,
		Scopes:        t.Scopes,
		RateLimitTier: t.RateLimitTier,
		LastUsedAt:    t.LastUsedAt,
		RevokedAt:     t.RevokedAt,
		CreatedAt:     t.CreatedAt,
	}
}
