package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/leetboard/leetboard/internal/cache"
	"github.com/leetboard/leetboard/internal/metrics"
	"github.com/leetboard/leetboard/internal/model"
)

type fakeRoadmapStore struct {
	problems []*model.Problem
	profiles []*model.Profile
	subs     []*model.Submission

	listProblemsErr error
	listCalls       int
}

func (s *fakeRoadmapStore) ListProblems(ctx context.Context) ([]*model.Problem, error) {
	s.listCalls++
	if s.listProblemsErr != nil {
		return nil, s.listProblemsErr
	}
	return s.problems, nil
}

func (s *fakeRoadmapStore) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	return s.profiles, nil
}

func (s *fakeRoadmapStore) ListAcceptedSubmissions(ctx context.Context) ([]*model.Submission, error) {
	return s.subs, nil
}

type fakeRoadmapCache struct {
	data   []byte
	getErr error

	stored []byte
	setErr error
}

func (c *fakeRoadmapCache) GetRoadmap(ctx context.Context) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.data == nil {
		return nil, cache.ErrCacheMiss
	}
	return c.data, nil
}

func (c *fakeRoadmapCache) SetRoadmap(ctx context.Context, data []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.stored = data
	return nil
}

func boardFixture() *fakeRoadmapStore {
	return &fakeRoadmapStore{
		problems: []*model.Problem{
			{Slug: "two-sum", Title: "Two Sum", Difficulty: model.DifficultyEasy, Topic: "arrays"},
			{Slug: "lru-cache", Title: "LRU Cache", Difficulty: model.DifficultyMedium, Topic: "design"},
			{Slug: "contains-duplicate", Title: "Contains Duplicate", Difficulty: model.DifficultyEasy, Topic: "arrays"},
		},
		profiles: []*model.Profile{
			{ID: "profile-1", LeetcodeUsername: "alice"},
			{ID: "profile-2", LeetcodeUsername: "bob"},
		},
		subs: []*model.Submission{
			{ProfileID: "profile-1", ProblemSlug: "two-sum", Status: model.StatusAccepted},
			{ProfileID: "profile-1", ProblemSlug: "lru-cache", Status: model.StatusAccepted},
			{ProfileID: "profile-2", ProblemSlug: "two-sum", Status: model.StatusAccepted},
		},
	}
}

func TestRoadmapBuildGroupsByTopic(t *testing.T) {
	t.Parallel()

	store := boardFixture()
	svc := NewRoadmapService(store, &fakeRoadmapCache{}, metrics.NewInMemory())

	roadmap, fromCache, err := svc.Roadmap(context.Background())
	if err != nil {
		t.Fatalf("Roadmap() error = %v", err)
	}
	if fromCache {
		t.Error("fromCache = true on an empty cache")
	}

	if len(roadmap.Topics) != 2 {
		t.Fatalf("topics = %d, want 2", len(roadmap.Topics))
	}
	// Topics come back sorted by name.
	if roadmap.Topics[0].Topic != "arrays" || roadmap.Topics[1].Topic != "design" {
		t.Errorf("topic order = [%q, %q], want [arrays, design]",
			roadmap.Topics[0].Topic, roadmap.Topics[1].Topic)
	}
	if len(roadmap.Topics[0].Problems) != 2 {
		t.Errorf("arrays problems = %d, want 2", len(roadmap.Topics[0].Problems))
	}

	// Every problem carries one cell per member.
	for _, topic := range roadmap.Topics {
		for _, problem := range topic.Problems {
			if len(problem.Statuses) != 2 {
				t.Errorf("%s statuses = %d, want 2", problem.Slug, len(problem.Statuses))
			}
		}
	}

	status := func(slug, profileID string) string {
		for _, topic := range roadmap.Topics {
			for _, problem := range topic.Problems {
				if problem.Slug != slug {
					continue
				}
				for _, cell := range problem.Statuses {
					if cell.ProfileID == profileID {
						return cell.Status
					}
				}
			}
		}
		t.Fatalf("no cell for %s/%s", slug, profileID)
		return ""
	}

	if got := status("two-sum", "profile-1"); got != model.StatusAccepted {
		t.Errorf("two-sum/alice = %q, want %q", got, model.StatusAccepted)
	}
	if got := status("lru-cache", "profile-2"); got != model.StatusNotStarted {
		t.Errorf("lru-cache/bob = %q, want %q", got, model.StatusNotStarted)
	}
	if got := status("contains-duplicate", "profile-1"); got != model.StatusNotStarted {
		t.Errorf("contains-duplicate/alice = %q, want %q", got, model.StatusNotStarted)
	}
}

func TestRoadmapCacheHitSkipsDatabase(t *testing.T) {
	t.Parallel()

	cached, err := json.Marshal(&Roadmap{
		Topics: []RoadmapTopic{{Topic: "arrays"}},
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	store := boardFixture()
	svc := NewRoadmapService(store, &fakeRoadmapCache{data: cached}, metrics.NewInMemory())

	roadmap, fromCache, err := svc.Roadmap(context.Background())
	if err != nil {
		t.Fatalf("Roadmap() error = %v", err)
	}
	if !fromCache {
		t.Error("fromCache = false on a warm cache")
	}
	if store.listCalls != 0 {
		t.Errorf("database queried %d times on a cache hit", store.listCalls)
	}
	if len(roadmap.Topics) != 1 || roadmap.Topics[0].Topic != "arrays" {
		t.Errorf("unexpected cached board: %+v", roadmap.Topics)
	}
}

func TestRoadmapCacheMissStoresRebuild(t *testing.T) {
	t.Parallel()

	roadmapCache := &fakeRoadmapCache{}
	svc := NewRoadmapService(boardFixture(), roadmapCache, metrics.NewInMemory())

	if _, _, err := svc.Roadmap(context.Background()); err != nil {
		t.Fatalf("Roadmap() error = %v", err)
	}

	if roadmapCache.stored == nil {
		t.Fatal("rebuilt board was not written back to the cache")
	}
	var stored Roadmap
	if err := json.Unmarshal(roadmapCache.stored, &stored); err != nil {
		t.Fatalf("cached payload is not a roadmap: %v", err)
	}
	if len(stored.Topics) != 2 {
		t.Errorf("cached topics = %d, want 2", len(stored.Topics))
	}
}

func TestRoadmapCacheErrorFallsBackToDatabase(t *testing.T) {
	t.Parallel()

	roadmapCache := &fakeRoadmapCache{getErr: errors.New("connection refused")}
	svc := NewRoadmapService(boardFixture(), roadmapCache, metrics.NewInMemory())

	roadmap, fromCache, err := svc.Roadmap(context.Background())
	if err != nil {
		t.Fatalf("Roadmap() error = %v", err)
	}
	if fromCache {
		t.Error("fromCache = true when the cache errored")
	}
	if len(roadmap.Topics) != 2 {
		t.Errorf("topics = %d, want 2", len(roadmap.Topics))
	}
}

func TestRoadmapCorruptCacheEntryRebuilds(t *testing.T) {
	t.Parallel()

	roadmapCache := &fakeRoadmapCache{data: []byte("{not json")}
	svc := NewRoadmapService(boardFixture(), roadmapCache, metrics.NewInMemory())

	roadmap, fromCache, err := svc.Roadmap(context.Background())
	if err != nil {
		t.Fatalf("Roadmap() error = %v", err)
	}
	if fromCache {
		t.Error("fromCache = true for a corrupted entry")
	}
	if len(roadmap.Topics) != 2 {
		t.Errorf("topics = %d, want 2", len(roadmap.Topics))
	}
}

func TestRoadmapBuildErrorPropagates(t *testing.T) {
	t.Parallel()

	store := boardFixture()
	store.listProblemsErr = errors.New("db down")
	svc := NewRoadmapService(store, &fakeRoadmapCache{}, metrics.NewInMemory())

	if _, _, err := svc.Roadmap(context.Background()); err == nil {
		t.Fatal("Roadmap() error = nil, want db error")
	}
}
