package service

import (
	"errors"
	"testing"
)

func TestValidateImportProblem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		problem ImportProblem
		wantErr error
	}{
		{
			name:    "valid",
			problem: ImportProblem{Slug: "two-sum", Title: "Two Sum", Difficulty: "Easy"},
		},
		{
			name:    "valid single word slug",
			problem: ImportProblem{Slug: "subsets", Title: "Subsets", Difficulty: "Medium"},
		},
		{
			name:    "empty slug",
			problem: ImportProblem{Slug: "", Title: "Two Sum", Difficulty: "Easy"},
			wantErr: ErrInvalidSlug,
		},
		{
			name:    "uppercase slug",
			problem: ImportProblem{Slug: "Two-Sum", Title: "Two Sum", Difficulty: "Easy"},
			wantErr: ErrInvalidSlug,
		},
		{
			name:    "trailing hyphen",
			problem: ImportProblem{Slug: "two-sum-", Title: "Two Sum", Difficulty: "Easy"},
			wantErr: ErrInvalidSlug,
		},
		{
			name:    "missing title",
			problem: ImportProblem{Slug: "two-sum", Title: "", Difficulty: "Easy"},
			wantErr: ErrMissingTitle,
		},
		{
			name:    "unknown difficulty",
			problem: ImportProblem{Slug: "two-sum", Title: "Two Sum", Difficulty: "Tricky"},
			wantErr: ErrInvalidDifficulty,
		},
		{
			name:    "lowercase difficulty rejected",
			problem: ImportProblem{Slug: "two-sum", Title: "Two Sum", Difficulty: "easy"},
			wantErr: ErrInvalidDifficulty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateImportProblem(tt.problem)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateImportProblem() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateImportProblem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUsernameRegex(t *testing.T) {
	t.Parallel()

	valid := []string{"gopher", "lee_t-code", "User123", "a"}
	for _, name := range valid {
		if !usernameRegex.MatchString(name) {
			t.Errorf("usernameRegex rejected valid username %q", name)
		}
	}

	invalid := []string{"", "has space", "way-too-long-username-over-thirty-chars", "emoji😀", "semi;colon"}
	for _, name := range invalid {
		if usernameRegex.MatchString(name) {
			t.Errorf("usernameRegex accepted invalid username %q", name)
		}
	}
}
