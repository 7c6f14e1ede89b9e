package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractToken(t *testing.T) {
	testCases := []struct {
		name        string
		authHeader  string
		tokenHeader string
		want        string
	}{
		{
			name:       "Bearer token",
			authHeader: "Bearer lb_live_abc123_secret",
			want:       "lb_live_abc123_secret",
		},
		{
			name:        "X-API-Token header",
			tokenHeader: "lb_live_abc123_secret",
			want:        "lb_live_abc123_secret",
		},
		{
			name:        "Bearer takes precedence",
			authHeader:  "Bearer bearer_token",
			tokenHeader: "header_token",
			want:        "bearer_token",
		},
		{
			name:        "Basic auth falls through to token header",
			authHeader:  "Basic dXNlcjpwYXNz",
			tokenHeader: "header_token",
			want:        "header_token",
		},
		{
			name: "No token",
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			if tc.tokenHeader != "" {
				req.Header.Set("X-API-Token", tc.tokenHeader)
			}

			if got := extractToken(req); got != tc.want {
				t.Errorf("extractToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWriteAuthError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAuthError(rec)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Type") != "application/json" {
		t.Error("expected JSON content type")
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"code":"UNAUTHORIZED"`) {
		t.Errorf("response should contain UNAUTHORIZED code, got: %s", body)
	}

	// Uniform message regardless of failure reason
	if !strings.Contains(body, "Invalid or missing API token") {
		t.Errorf("unexpected error message: %s", body)
	}
}
