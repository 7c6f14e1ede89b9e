// Package service provides business logic for the application.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/leetboard/leetboard/internal/cache"
	"github.com/leetboard/leetboard/internal/metrics"
	"github.com/leetboard/leetboard/internal/model"
)

// RoadmapStore is the slice of the repository the roadmap reads from.
type RoadmapStore interface {
	ListProblems(ctx context.Context) ([]*model.Problem, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	ListAcceptedSubmissions(ctx context.Context) ([]*model.Submission, error)
}

// RoadmapCache holds the rendered board between rebuilds.
type RoadmapCache interface {
	GetRoadmap(ctx context.Context) ([]byte, error)
	SetRoadmap(ctx context.Context, data []byte) error
}

// MemberStatus is one member's standing on a roadmap problem.
type MemberStatus struct {
	ProfileID string `json:"profile_id"`
	Username  string `json:"username"`
	Status    string `json:"status"`
}

// RoadmapProblem is a catalog problem with every member's status.
type RoadmapProblem struct {
	Slug       string           `json:"slug"`
	Title      string           `json:"title"`
	Difficulty model.Difficulty `json:"difficulty"`
	Statuses   []MemberStatus   `json:"statuses"`
}

// RoadmapTopic groups problems under a topic heading.
type RoadmapTopic struct {
	Topic    string           `json:"topic"`
	Problems []RoadmapProblem `json:"problems"`
}

// Roadmap is the full group progress board.
type Roadmap struct {
	Topics      []RoadmapTopic `json:"topics"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// RoadmapService assembles the group roadmap view.
type RoadmapService struct {
	repo    RoadmapStore
	cache   RoadmapCache
	metrics metrics.Recorder
}

// NewRoadmapService creates a new RoadmapService.
func NewRoadmapService(repo RoadmapStore, cache RoadmapCache, recorder metrics.Recorder) *RoadmapService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RoadmapService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
	}
}

// Roadmap returns the group roadmap, cache-first. The bool reports
// whether the cache served it.
func (s *RoadmapService) Roadmap(ctx context.Context) (*Roadmap, bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRoadmapDuration(time.Since(start))
	}()

	cached, err := s.cache.GetRoadmap(ctx)
	if err == nil {
		var roadmap Roadmap
		if err := json.Unmarshal(cached, &roadmap); err == nil {
			s.metrics.IncRoadmapCacheHit()
			return &roadmap, true, nil
		}
		// Corrupted entry: rebuild below.
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache unreachable: serve from the database instead.
		_ = err
	}
	s.metrics.IncRoadmapCacheMiss()

	roadmap, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(roadmap); err == nil {
		// Best effort: the view is already built, a failed write
		// only costs the next request a rebuild.
		_ = s.cache.SetRoadmap(ctx, data)
	}

	return roadmap, false, nil
}

// build assembles the roadmap from the database: the full catalog
// grouped by topic, with one status cell per member per problem.
func (s *RoadmapService) build(ctx context.Context) (*Roadmap, error) {
	problems, err := s.repo.ListProblems(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	// Accepted slug set per profile, one query for the whole board.
	accepted := make(map[string]map[string]struct{}, len(profiles))
	subs, err := s.repo.ListAcceptedSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		set, ok := accepted[sub.ProfileID]
		if !ok {
			set = make(map[string]struct{})
			accepted[sub.ProfileID] = set
		}
		set[sub.ProblemSlug] = struct{}{}
	}

	byTopic := make(map[string][]RoadmapProblem)
	for _, problem := range problems {
		statuses := make([]MemberStatus, 0, len(profiles))
		for _, profile := range profiles {
			status := model.StatusNotStarted
			if set, ok := accepted[profile.ID]; ok {
				if _, solved := set[problem.Slug]; solved {
					status = model.StatusAccepted
				}
			}
			statuses = append(statuses, MemberStatus{
				ProfileID: profile.ID,
				Username:  profile.LeetcodeUsername,
				Status:    status,
			})
		}

		byTopic[problem.Topic] = append(byTopic[problem.Topic], RoadmapProblem{
			Slug:       problem.Slug,
			Title:      problem.Title,
			Difficulty: problem.Difficulty,
			Statuses:   statuses,
		})
	}

	topics := make([]RoadmapTopic, 0, len(byTopic))
	for topic, problems := range byTopic {
		topics = append(topics, RoadmapTopic{Topic: topic, Problems: problems})
	}
	sort.Slice(topics, func(i, j int) bool {
		return topics[i].Topic < topics[j].Topic
	})

	return &Roadmap{
		Topics:      topics,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
