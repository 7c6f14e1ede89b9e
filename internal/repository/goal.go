package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/leetboard/leetboard/internal/model"
)

// Common errors for weekly goal repository operations.
var (
	ErrGoalNotFound = errors.New("weekly goal not found")
)

// UpsertGoal creates or replaces a profile's goal for a week.
// The (profile, week) pair is unique; setting a goal twice for the
// same week replaces the pledged slugs.
func (r *Repository) UpsertGoal(ctx context.Context, goal *model.WeeklyGoal) error {
	query := `
		INSERT INTO weekly_goals (id, profile_id, week_start, slugs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (profile_id, week_start) DO UPDATE
		SET slugs = EXCLUDED.slugs, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		goal.ID,
		goal.ProfileID,
		goal.WeekStart,
		pq.Array(goal.Slugs),
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to upsert weekly goal: %w", err)
	}

	return nil
}

// GetGoal retrieves the goal for a profile and week start.
func (r *Repository) GetGoal(ctx context.Context, profileID string, weekStart time.Time) (*model.WeeklyGoal, error) {
	query := `
		SELECT id, profile_id, week_start, slugs, created_at, updated_at
		FROM weekly_goals
		WHERE profile_id = $1 AND week_start = $2
	`

	goal, err := scanGoal(r.pool.QueryRow(ctx, query, profileID, weekStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get weekly goal: %w", err)
	}

	return goal, nil
}

// ListGoalsByProfile retrieves a profile's goals, newest week first.
func (r *Repository) ListGoalsByProfile(ctx context.Context, profileID string) ([]*model.WeeklyGoal, error) {
	query := `
		SELECT id, profile_id, week_start, slugs, created_at, updated_at
		FROM weekly_goals
		WHERE profile_id = $1
		ORDER BY week_start DESC
	`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly goals: %w", err)
	}
	defer rows.Close()

	var goals []*model.WeeklyGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly goal: %w", err)
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weekly goals: %w", err)
	}

	return goals, nil
}

// scanGoal scans a single row into a WeeklyGoal model.
func scanGoal(row pgx.Row) (*model.WeeklyGoal, error) {
	var goal model.WeeklyGoal
	var slugs []string

	err := row.Scan(
		&goal.ID,
		&goal.ProfileID,
		&goal.WeekStart,
		pq.Array(&slugs),
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	goal.Slugs = slugs
	goal.WeekStart = goal.WeekStart.UTC()
	return &goal, nil
}
