package model

import (
	"testing"
	"time"
)

func TestAPIToken_HasScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scopes []string
		check  string
		want   bool
	}{
		{"has read", []string{ScopeRead}, ScopeRead, true},
		{"missing write", []string{ScopeRead}, ScopeWrite, false},
		{"admin implies read", []string{ScopeAdmin}, ScopeRead, true},
		{"admin implies write", []string{ScopeAdmin}, ScopeWrite, true},
		{"empty scopes", nil, ScopeRead, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token := &APIToken{Scopes: tt.scopes}
			if got := token.HasScope(tt.check); got != tt.want {
				t.Errorf("HasScope(%q) = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestAPIToken_IsRevoked(t *testing.T) {
	t.Parallel()

	token := &APIToken{}
	if token.IsRevoked() {
		t.Error("new token should not be revoked")
	}

	now := time.Now()
	token.RevokedAt = &now
	if !token.IsRevoked() {
		t.Error("token with revoked_at should be revoked")
	}
}

func TestAPIToken_GetRateLimitConfig_UnknownTier(t *testing.T) {
	t.Parallel()

	token := &APIToken{RateLimitTier: "bogus"}
	cfg := token.GetRateLimitConfig()

	if cfg != TierConfigs[TierFree] {
		t.Errorf("unknown tier should fall back to free, got %+v", cfg)
	}
}

func TestDifficulty_IsValid(t *testing.T) {
	t.Parallel()

	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !d.IsValid() {
			t.Errorf("%s should be valid", d)
		}
	}
	if Difficulty("Impossible").IsValid() {
		t.Error("unknown difficulty should be invalid")
	}
}
