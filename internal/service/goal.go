package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leetboard/leetboard/internal/model"
	"github.com/leetboard/leetboard/internal/repository"
)

// Goal service errors.
var (
	ErrGoalNotFound  = errors.New("no goal set for this week")
	ErrNoSlugs       = errors.New("at least one problem must be pledged")
	ErrTooManySlugs  = errors.New("too many problems pledged for one week")
	ErrUnknownSlug   = errors.New("pledged problem is not in the catalog")
	ErrDuplicateSlug = errors.New("pledged problems must be unique")
)

const maxPledgedSlugs = 25

// GoalStore is the slice of the repository goals are kept in.
type GoalStore interface {
	GetGoal(ctx context.Context, profileID string, weekStart time.Time) (*model.WeeklyGoal, error)
	UpsertGoal(ctx context.Context, goal *model.WeeklyGoal) error
	ListGoalsByProfile(ctx context.Context, profileID string) ([]*model.WeeklyGoal, error)
	ProblemsBySlugs(ctx context.Context, slugs []string) (map[string]*model.Problem, error)
	AcceptedSlugsInWindow(ctx context.Context, profileID string, slugs []string, from, to time.Time) ([]string, error)
}

// ProfileResolver maps an authenticated user to their profile.
type ProfileResolver interface {
	GetSettings(ctx context.Context, userID string) (*model.Profile, error)
}

// GoalWithProgress pairs a goal with its completion state.
type GoalWithProgress struct {
	Goal     *model.WeeklyGoal   `json:"goal"`
	Progress *model.GoalProgress `json:"progress"`
}

// GoalService manages weekly goals and their progress.
type GoalService struct {
	repo     GoalStore
	profiles ProfileResolver
}

// NewGoalService creates a new GoalService.
func NewGoalService(repo GoalStore, profiles ProfileResolver) *GoalService {
	return &GoalService{
		repo:     repo,
		profiles: profiles,
	}
}

// CurrentGoal returns the caller's goal for the current week.
func (s *GoalService) CurrentGoal(ctx context.Context, userID string) (*GoalWithProgress, error) {
	profile, err := s.profiles.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekStart := model.WeekStartOf(time.Now())
	goal, err := s.repo.GetGoal(ctx, profile.ID, weekStart)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}

	return s.withProgress(ctx, goal)
}

// SetCurrentGoal pledges problems for the current week, replacing any
// earlier pledge for the same week.
func (s *GoalService) SetCurrentGoal(ctx context.Context, userID string, slugs []string) (*GoalWithProgress, error) {
	profile, err := s.profiles.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(slugs) == 0 {
		return nil, ErrNoSlugs
	}
	if len(slugs) > maxPledgedSlugs {
		return nil, ErrTooManySlugs
	}

	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, dup := seen[slug]; dup {
			return nil, ErrDuplicateSlug
		}
		seen[slug] = struct{}{}
	}

	// Every pledged slug must exist in the catalog.
	known, err := s.repo.ProblemsBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	for _, slug := range slugs {
		if _, ok := known[slug]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSlug, slug)
		}
	}

	now := time.Now().UTC()
	goal := &model.WeeklyGoal{
		ID:        uuid.New().String(),
		ProfileID: profile.ID,
		WeekStart: model.WeekStartOf(now),
		Slugs:     slugs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.UpsertGoal(ctx, goal); err != nil {
		return nil, err
	}

	// Re-read so the stored row (including a kept ID on replace) wins.
	stored, err := s.repo.GetGoal(ctx, profile.ID, goal.WeekStart)
	if err != nil {
		return nil, err
	}

	return s.withProgress(ctx, stored)
}

// ListGoals returns the caller's goal history, newest week first, each
// with its progress.
func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]*GoalWithProgress, error) {
	profile, err := s.profiles.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.ListGoalsByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	result := make([]*GoalWithProgress, 0, len(goals))
	for _, goal := range goals {
		gp, err := s.withProgress(ctx, goal)
		if err != nil {
			return nil, err
		}
		result = append(result, gp)
	}

	return result, nil
}

// withProgress computes completion for a goal: the pledged slugs with
// an accepted submission inside the goal's week.
func (s *GoalService) withProgress(ctx context.Context, goal *model.WeeklyGoal) (*GoalWithProgress, error) {
	completed, err := s.repo.AcceptedSlugsInWindow(ctx, goal.ProfileID, goal.Slugs, goal.WeekStart, goal.WeekEnd())
	if err != nil {
		return nil, err
	}
	if completed == nil {
		completed = []string{}
	}

	return &GoalWithProgress{
		Goal: goal,
		Progress: &model.GoalProgress{
			CompletedSlugs: completed,
			TotalPledged:   len(goal.Slugs),
		},
	}, nil
}
