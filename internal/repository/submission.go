package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/leetboard/leetboard/internal/model"
)

// BulkInsertSubmissions inserts submissions idempotently.
// Rows violating the (profile, problem, status) uniqueness are skipped
// via ON CONFLICT DO NOTHING, so replays are safe.
func (r *Repository) BulkInsertSubmissions(ctx context.Context, subs []*model.Submission) error {
	if len(subs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO submissions (id, profile_id, problem_slug, status, language, runtime, memory, submission_url, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (profile_id, problem_slug, status) DO NOTHING
	`

	for _, sub := range subs {
		batch.Queue(query,
			sub.ID,
			sub.ProfileID,
			sub.ProblemSlug,
			sub.Status,
			sub.Language,
			sub.Runtime,
			sub.Memory,
			sub.SubmissionURL,
			sub.SubmittedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(subs); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert submission %d: %w", i, err)
		}
	}

	return nil
}

// ListAcceptedSubmissions retrieves every accepted submission across
// all profiles. Used to assemble the group roadmap.
func (r *Repository) ListAcceptedSubmissions(ctx context.Context) ([]*model.Submission, error) {
	query := `
		SELECT id, profile_id, problem_slug, status, language, runtime, memory, submission_url, submitted_at
		FROM submissions
		WHERE status = $1
		ORDER BY submitted_at DESC
	`

	rows, err := r.pool.Query(ctx, query, model.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// AcceptedSlugsInWindow returns the distinct pledged slugs a profile
// solved within [from, to). Used for weekly goal progress.
func (r *Repository) AcceptedSlugsInWindow(ctx context.Context, profileID string, slugs []string, from, to time.Time) ([]string, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT problem_slug
		FROM submissions
		WHERE profile_id = $1
		  AND status = $2
		  AND problem_slug = ANY($3)
		  AND submitted_at >= $4
		  AND submitted_at < $5
	`

	rows, err := r.pool.Query(ctx, query, profileID, model.StatusAccepted, pq.Array(slugs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get accepted slugs in window: %w", err)
	}
	defer rows.Close()

	var completed []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug: %w", err)
		}
		completed = append(completed, slug)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slugs: %w", err)
	}

	return completed, nil
}

// GetSnapshot retrieves the roadmap snapshot for a profile.
// Returns an empty snapshot (not an error) when none exists yet.
func (r *Repository) GetSnapshot(ctx context.Context, profileID string) (*model.RoadmapSnapshot, error) {
	query := `
		SELECT slugs, updated_at
		FROM roadmap_snapshots
		WHERE profile_id = $1
	`

	var raw []byte
	snapshot := &model.RoadmapSnapshot{ProfileID: profileID}

	err := r.pool.QueryRow(ctx, query, profileID).Scan(&raw, &snapshot.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return snapshot, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := json.Unmarshal(raw, &snapshot.Slugs); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot slugs: %w", err)
	}

	return snapshot, nil
}

// SaveSnapshot upserts the roadmap snapshot for a profile.
func (r *Repository) SaveSnapshot(ctx context.Context, profileID string, slugs []string) error {
	if slugs == nil {
		slugs = []string{}
	}

	raw, err := json.Marshal(slugs)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot slugs: %w", err)
	}

	query := `
		INSERT INTO roadmap_snapshots (profile_id, slugs, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile_id) DO UPDATE
		SET slugs = EXCLUDED.slugs, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, profileID, raw); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// scanSubmissions collects submissions from a result set.
func scanSubmissions(rows pgx.Rows) ([]*model.Submission, error) {
	var subs []*model.Submission
	for rows.Next() {
		var sub model.Submission
		err := rows.Scan(
			&sub.ID,
			&sub.ProfileID,
			&sub.ProblemSlug,
			&sub.Status,
			&sub.Language,
			&sub.Runtime,
			&sub.Memory,
			&sub.SubmissionURL,
			&sub.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return subs, nil
}
