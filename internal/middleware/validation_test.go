package middleware

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSlugParam(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{name: "valid slug", slug: "two-sum"},
		{name: "valid single word", slug: "subsets"},
		{name: "valid with digits", slug: "3sum-closest"},
		{name: "empty", slug: "", wantErr: ErrSlugInvalid},
		{name: "uppercase", slug: "Two-Sum", wantErr: ErrSlugInvalid},
		{name: "leading hyphen", slug: "-two-sum", wantErr: ErrSlugInvalid},
		{name: "double hyphen", slug: "two--sum", wantErr: ErrSlugInvalid},
		{name: "path traversal", slug: "../etc/passwd", wantErr: ErrSlugInvalid},
		{name: "too long", slug: strings.Repeat("a", MaxSlugLength+1), wantErr: ErrSlugTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlugParam(tt.slug)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSlugParam(%q) error = %v, want nil", tt.slug, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSlugParam(%q) error = %v, want %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTokenName(t *testing.T) {
	tests := []struct {
		name      string
		tokenName string
		wantErr   error
	}{
		{name: "empty allowed", tokenName: ""},
		{name: "simple name", tokenName: "ci token"},
		{name: "with punctuation", tokenName: "grafana_dashboard-1.2"},
		{name: "too long", tokenName: strings.Repeat("x", MaxTokenNameLength+1), wantErr: ErrTokenNameTooLong},
		{name: "control chars rejected", tokenName: "bad\x00name", wantErr: ErrTokenNameInvalid},
		{name: "quotes rejected", tokenName: `"quoted"`, wantErr: ErrTokenNameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTokenName(tt.tokenName)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTokenName(%q) error = %v, want nil", tt.tokenName, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTokenName(%q) error = %v, want %v", tt.tokenName, err, tt.wantErr)
			}
		})
	}
}
