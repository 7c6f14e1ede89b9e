package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/leetboard/leetboard/internal/cache"
	"github.com/leetboard/leetboard/internal/metrics"
	"github.com/leetboard/leetboard/internal/model"
	"github.com/leetboard/leetboard/internal/repository"
)

// Catalog service errors.
var (
	ErrInvalidSlug       = errors.New("invalid problem slug")
	ErrMissingTitle      = errors.New("problem title is required")
	ErrInvalidDifficulty = errors.New("difficulty must be Easy, Medium or Hard")
	ErrMissingTopic      = errors.New("topic is required")
	ErrEmptyImport       = errors.New("import contains no problems")
	ErrProblemNotFound   = errors.New("problem not found")
)

// Slug validation: lowercase LeetCode title slugs.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

const maxImportProblems = 1000

// CatalogService manages the curated problem catalog.
type CatalogService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	metrics metrics.Recorder
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo *repository.Repository, cache *cache.Cache, recorder metrics.Recorder) *CatalogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CatalogService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
	}
}

// ImportProblem is one problem in an import document.
type ImportProblem struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// ImportInput maps topic name to the problems under it. This mirrors
// the shape of a hand-curated roadmap document.
type ImportInput map[string][]ImportProblem

// ImportResult summarizes an import run.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Import upserts the catalog from a topic-grouped document. Existing
// problems are updated in place; the whole document is validated before
// any write happens.
func (s *CatalogService) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	total := 0
	for topic, problems := range input {
		if topic == "" {
			return nil, ErrMissingTopic
		}
		for _, p := range problems {
			if err := validateImportProblem(p); err != nil {
				return nil, fmt.Errorf("topic %q, slug %q: %w", topic, p.Slug, err)
			}
			total++
		}
	}
	if total == 0 {
		return nil, ErrEmptyImport
	}
	if total > maxImportProblems {
		return nil, fmt.Errorf("import too large: %d problems", total)
	}

	result := &ImportResult{}
	for topic, problems := range input {
		for _, p := range problems {
			created, err := s.repo.UpsertProblem(ctx, &model.Problem{
				Slug:       p.Slug,
				Title:      p.Title,
				Difficulty: model.Difficulty(p.Difficulty),
				Topic:      topic,
			})
			if err != nil {
				return nil, err
			}
			if created {
				result.Created++
				s.metrics.IncProblemCreated()
			} else {
				result.Updated++
				s.metrics.IncProblemUpdated()
			}
		}
	}

	// The board shape changed; rebuild on next read. A failed
	// invalidation leaves a stale board until the cache TTL expires.
	_ = s.cache.InvalidateRoadmap(ctx)

	return result, nil
}

// ListProblems returns the full catalog, ordered by topic then title.
func (s *CatalogService) ListProblems(ctx context.Context) ([]*model.Problem, error) {
	return s.repo.ListProblems(ctx)
}

// GetProblem returns one catalog problem by slug.
func (s *CatalogService) GetProblem(ctx context.Context, slug string) (*model.Problem, error) {
	problem, err := s.repo.GetProblem(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProblemNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}
	return problem, nil
}

// validateImportProblem checks one import entry.
func validateImportProblem(p ImportProblem) error {
	if p.Slug == "" || !slugRegex.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	if p.Title == "" {
		return ErrMissingTitle
	}
	if !model.Difficulty(p.Difficulty).IsValid() {
		return ErrInvalidDifficulty
	}
	return nil
}
