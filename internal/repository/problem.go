package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/leetboard/leetboard/internal/model"
)

// Common errors for problem repository operations.
var (
	ErrProblemNotFound = errors.New("problem not found")
)

// UpsertProblem inserts or updates a catalog problem.
// Returns true if the problem was newly created.
func (r *Repository) UpsertProblem(ctx context.Context, problem *model.Problem) (bool, error) {
	query := `
		INSERT INTO problems (slug, title, difficulty, topic)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title, difficulty = EXCLUDED.difficulty, topic = EXCLUDED.topic
		RETURNING (xmax = 0)
	`

	var created bool
	err := r.pool.QueryRow(ctx, query,
		problem.Slug,
		problem.Title,
		problem.Difficulty,
		problem.Topic,
	).Scan(&created)

	if err != nil {
		return false, fmt.Errorf("failed to upsert problem: %w", err)
	}

	return created, nil
}

// GetProblem retrieves a problem by its slug.
func (r *Repository) GetProblem(ctx context.Context, slug string) (*model.Problem, error) {
	query := `
		SELECT slug, title, difficulty, topic
		FROM problems
		WHERE slug = $1
	`

	var problem model.Problem
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&problem.Slug,
		&problem.Title,
		&problem.Difficulty,
		&problem.Topic,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	return &problem, nil
}

// ListProblems retrieves the full catalog, ordered by topic then title.
func (r *Repository) ListProblems(ctx context.Context) ([]*model.Problem, error) {
	query := `
		SELECT slug, title, difficulty, topic
		FROM problems
		ORDER BY topic, title
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	defer rows.Close()

	var problems []*model.Problem
	for rows.Next() {
		var problem model.Problem
		if err := rows.Scan(&problem.Slug, &problem.Title, &problem.Difficulty, &problem.Topic); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		problems = append(problems, &problem)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating problems: %w", err)
	}

	return problems, nil
}

// ProblemsBySlugs retrieves catalog problems matching the given slugs,
// keyed by slug. Slugs not in the catalog are absent from the result.
func (r *Repository) ProblemsBySlugs(ctx context.Context, slugs []string) (map[string]*model.Problem, error) {
	if len(slugs) == 0 {
		return map[string]*model.Problem{}, nil
	}

	query := `
		SELECT slug, title, difficulty, topic
		FROM problems
		WHERE slug = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, pq.Array(slugs))
	if err != nil {
		return nil, fmt.Errorf("failed to get problems by slugs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*model.Problem, len(slugs))
	for rows.Next() {
		var problem model.Problem
		if err := rows.Scan(&problem.Slug, &problem.Title, &problem.Difficulty, &problem.Topic); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		result[problem.Slug] = &problem
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating problems: %w", err)
	}

	return result, nil
}
