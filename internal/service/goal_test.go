package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leetboard/leetboard/internal/model"
	"github.com/leetboard/leetboard/internal/repository"
)

type timedSub struct {
	slug        string
	submittedAt time.Time
}

type fakeGoalStore struct {
	goal    *model.WeeklyGoal
	goals   []*model.WeeklyGoal
	catalog []string
	subs    []timedSub

	upserted *model.WeeklyGoal
}

func (s *fakeGoalStore) GetGoal(ctx context.Context, profileID string, weekStart time.Time) (*model.WeeklyGoal, error) {
	if s.goal != nil && s.goal.ProfileID == profileID && s.goal.WeekStart.Equal(weekStart) {
		return s.goal, nil
	}
	return nil, repository.ErrGoalNotFound
}

func (s *fakeGoalStore) UpsertGoal(ctx context.Context, goal *model.WeeklyGoal) error {
	s.upserted = goal
	s.goal = goal
	return nil
}

func (s *fakeGoalStore) ListGoalsByProfile(ctx context.Context, profileID string) ([]*model.WeeklyGoal, error) {
	return s.goals, nil
}

func (s *fakeGoalStore) ProblemsBySlugs(ctx context.Context, slugs []string) (map[string]*model.Problem, error) {
	known := make(map[string]*model.Problem, len(slugs))
	for _, slug := range slugs {
		for _, c := range s.catalog {
			if c == slug {
				known[slug] = &model.Problem{Slug: slug}
			}
		}
	}
	return known, nil
}

func (s *fakeGoalStore) AcceptedSlugsInWindow(ctx context.Context, profileID string, slugs []string, from, to time.Time) ([]string, error) {
	var completed []string
	for _, sub := range s.subs {
		if sub.submittedAt.Before(from) || !sub.submittedAt.Before(to) {
			continue
		}
		for _, slug := range slugs {
			if slug != sub.slug {
				continue
			}
			dup := false
			for _, done := range completed {
				if done == slug {
					dup = true
					break
				}
			}
			if !dup {
				completed = append(completed, slug)
			}
		}
	}
	return completed, nil
}

type fakeProfileResolver struct {
	profile *model.Profile
	err     error
}

func (r *fakeProfileResolver) GetSettings(ctx context.Context, userID string) (*model.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.profile, nil
}

func goalTestResolver() *fakeProfileResolver {
	return &fakeProfileResolver{
		profile: &model.Profile{ID: "profile-1", UserID: "user-1", LeetcodeUsername: "alice"},
	}
}

func TestGoalSetCurrentGoalValidation(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, maxPledgedSlugs+1)
	for i := range tooMany {
		tooMany[i] = "two-sum"
	}

	tests := []struct {
		name    string
		slugs   []string
		wantErr error
	}{
		{
			name:    "empty pledge",
			slugs:   nil,
			wantErr: ErrNoSlugs,
		},
		{
			name:    "over the pledge cap",
			slugs:   tooMany,
			wantErr: ErrTooManySlugs,
		},
		{
			name:    "duplicate slug",
			slugs:   []string{"two-sum", "two-sum"},
			wantErr: ErrDuplicateSlug,
		},
		{
			name:    "slug outside the catalog",
			slugs:   []string{"two-sum", "daily-challenge"},
			wantErr: ErrUnknownSlug,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeGoalStore{catalog: []string{"two-sum", "lru-cache"}}
			svc := NewGoalService(store, goalTestResolver())

			_, err := svc.SetCurrentGoal(context.Background(), "user-1", tt.slugs)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetCurrentGoal() error = %v, want %v", err, tt.wantErr)
			}
			if store.upserted != nil {
				t.Error("goal stored despite failing validation")
			}
		})
	}
}

func TestGoalSetCurrentGoalReturnsProgress(t *testing.T) {
	t.Parallel()

	weekStart := model.WeekStartOf(time.Now())
	store := &fakeGoalStore{
		catalog: []string{"two-sum", "lru-cache"},
		subs: []timedSub{
			{slug: "two-sum", submittedAt: weekStart.Add(24 * time.Hour)},
			{slug: "lru-cache", submittedAt: weekStart.Add(-time.Hour)}, // last week
		},
	}
	svc := NewGoalService(store, goalTestResolver())

	got, err := svc.SetCurrentGoal(context.Background(), "user-1", []string{"two-sum", "lru-cache"})
	if err != nil {
		t.Fatalf("SetCurrentGoal() error = %v", err)
	}

	if store.upserted == nil {
		t.Fatal("goal was not stored")
	}
	if !store.upserted.WeekStart.Equal(weekStart) {
		t.Errorf("stored WeekStart = %v, want %v", store.upserted.WeekStart, weekStart)
	}
	if got.Goal.ProfileID != "profile-1" {
		t.Errorf("ProfileID = %q, want profile-1", got.Goal.ProfileID)
	}
	if got.Progress.TotalPledged != 2 {
		t.Errorf("TotalPledged = %d, want 2", got.Progress.TotalPledged)
	}
	if len(got.Progress.CompletedSlugs) != 1 || got.Progress.CompletedSlugs[0] != "two-sum" {
		t.Errorf("CompletedSlugs = %v, want [two-sum]", got.Progress.CompletedSlugs)
	}
}

func TestGoalCurrentGoalNotFound(t *testing.T) {
	t.Parallel()

	svc := NewGoalService(&fakeGoalStore{}, goalTestResolver())

	_, err := svc.CurrentGoal(context.Background(), "user-1")
	if !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("CurrentGoal() error = %v, want %v", err, ErrGoalNotFound)
	}
}

func TestGoalCurrentGoalWindowBoundaries(t *testing.T) {
	t.Parallel()

	weekStart := model.WeekStartOf(time.Now())
	weekEnd := weekStart.AddDate(0, 0, 7)

	goal := &model.WeeklyGoal{
		ID:        "goal-1",
		ProfileID: "profile-1",
		WeekStart: weekStart,
		Slugs:     []string{"two-sum", "lru-cache", "merge-intervals"},
	}
	store := &fakeGoalStore{
		goal: goal,
		subs: []timedSub{
			{slug: "two-sum", submittedAt: weekStart},                      // inclusive start
			{slug: "lru-cache", submittedAt: weekEnd.Add(-time.Second)},    // last moment of the week
			{slug: "merge-intervals", submittedAt: weekEnd},                // exclusive end
			{slug: "two-sum", submittedAt: weekStart.Add(48 * time.Hour)},  // repeat solve counts once
			{slug: "valid-anagram", submittedAt: weekStart.Add(time.Hour)}, // not pledged
		},
	}
	svc := NewGoalService(store, goalTestResolver())

	got, err := svc.CurrentGoal(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CurrentGoal() error = %v", err)
	}

	if got.Progress.TotalPledged != 3 {
		t.Errorf("TotalPledged = %d, want 3", got.Progress.TotalPledged)
	}
	want := map[string]bool{"two-sum": true, "lru-cache": true}
	if len(got.Progress.CompletedSlugs) != len(want) {
		t.Fatalf("CompletedSlugs = %v, want two-sum and lru-cache", got.Progress.CompletedSlugs)
	}
	for _, slug := range got.Progress.CompletedSlugs {
		if !want[slug] {
			t.Errorf("CompletedSlugs contains %q", slug)
		}
	}
}

func TestGoalListGoalsEmptyProgress(t *testing.T) {
	t.Parallel()

	weekStart := model.WeekStartOf(time.Now())
	store := &fakeGoalStore{
		goals: []*model.WeeklyGoal{
			{ID: "goal-2", ProfileID: "profile-1", WeekStart: weekStart, Slugs: []string{"two-sum"}},
			{ID: "goal-1", ProfileID: "profile-1", WeekStart: weekStart.AddDate(0, 0, -7), Slugs: []string{"lru-cache"}},
		},
	}
	svc := NewGoalService(store, goalTestResolver())

	goals, err := svc.ListGoals(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListGoals() error = %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("goals = %d, want 2", len(goals))
	}
	for _, gp := range goals {
		// No accepted submissions at all: progress is empty, never nil.
		if gp.Progress.CompletedSlugs == nil {
			t.Errorf("goal %s CompletedSlugs = nil, want empty slice", gp.Goal.ID)
		}
		if len(gp.Progress.CompletedSlugs) != 0 {
			t.Errorf("goal %s CompletedSlugs = %v, want empty", gp.Goal.ID, gp.Progress.CompletedSlugs)
		}
	}
}

func TestGoalProfileErrorPropagates(t *testing.T) {
	t.Parallel()

	resolver := &fakeProfileResolver{err: ErrProfileNotFound}
	svc := NewGoalService(&fakeGoalStore{catalog: []string{"two-sum"}}, resolver)

	if _, err := svc.CurrentGoal(context.Background(), "user-1"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("CurrentGoal() error = %v, want %v", err, ErrProfileNotFound)
	}
	if _, err := svc.SetCurrentGoal(context.Background(), "user-1", []string{"two-sum"}); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("SetCurrentGoal() error = %v, want %v", err, ErrProfileNotFound)
	}
}
