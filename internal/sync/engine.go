package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/leetboard/leetboard/internal/leetcode"
	"github.com/leetboard/leetboard/internal/metrics"
	"github.com/leetboard/leetboard/internal/model"
	"github.com/leetboard/leetboard/internal/secret"
)

// snapshotProbe is how many leading snapshot slugs must still appear in
// the live recent list for the cheap append path to be trusted. If any
// of them vanished, more than a page of activity happened since the
// last sync and only a full crawl can recover it.
const snapshotProbe = 5

// Sync outcomes.
const (
	StatusNoChange      = "no_change"
	StatusAppended      = "appended"
	StatusResynced      = "resynced"
	StatusPartial       = "partial"
	StatusCookieInvalid = "cookie_invalid"
	StatusSkipped       = "skipped"
)

// Fetcher pulls submission data from LeetCode.
type Fetcher interface {
	RecentAccepted(ctx context.Context, username string) ([]leetcode.SubmissionEntry, error)
	FullHistory(ctx context.Context, session leetcode.Session) ([]leetcode.SubmissionEntry, error)
}

// Store is the persistence surface the engine reconciles against.
type Store interface {
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
	GetSnapshot(ctx context.Context, profileID string) (*model.RoadmapSnapshot, error)
	SaveSnapshot(ctx context.Context, profileID string, slugs []string) error
	BulkInsertSubmissions(ctx context.Context, subs []*model.Submission) error
	ProblemsBySlugs(ctx context.Context, slugs []string) (map[string]*model.Problem, error)
	MarkCookieInvalid(ctx context.Context, id string) error
	TouchLastSynced(ctx context.Context, id string, at time.Time) error
}

// Locker serializes concurrent syncs of the same profile.
type Locker interface {
	AcquireSyncLock(ctx context.Context, profileID string) (bool, error)
	ReleaseSyncLock(ctx context.Context, profileID string) error
}

// Invalidator drops derived caches after an ingest.
type Invalidator interface {
	InvalidateRoadmap(ctx context.Context) error
}

// Result describes the outcome of one sync run.
type Result struct {
	Status   string
	Ingested int
}

// Engine runs the sync decision tree for a single profile: compare the
// live recent-accepted list against the stored snapshot, then either do
// nothing, append the delta, or fall back to a full history crawl.
type Engine struct {
	store   Store
	fetcher Fetcher
	box     *secret.Box
	locks   Locker
	caches  Invalidator
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewEngine creates a sync engine.
func NewEngine(store Store, fetcher Fetcher, box *secret.Box, locks Locker, caches Invalidator, logger *slog.Logger, recorder metrics.Recorder) *Engine {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Engine{
		store:   store,
		fetcher: fetcher,
		box:     box,
		locks:   locks,
		caches:  caches,
		logger:  logger.With("component", "sync.engine"),
		metrics: recorder,
	}
}

// Sync reconciles one profile. Safe to call concurrently; a per-profile
// lock ensures only one run proceeds, the rest report StatusSkipped.
func (e *Engine) Sync(ctx context.Context, profileID string) (*Result, error) {
	acquired, err := e.locks.AcquireSyncLock(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !acquired {
		e.logger.Debug("sync already in flight", "profile_id", profileID)
		return &Result{Status: StatusSkipped}, nil
	}
	defer func() {
		if err := e.locks.ReleaseSyncLock(context.WithoutCancel(ctx), profileID); err != nil {
			e.logger.Warn("failed to release sync lock", "profile_id", profileID, "error", err)
		}
	}()

	start := time.Now()
	result, err := e.run(ctx, profileID)
	if err != nil {
		return nil, err
	}

	e.metrics.ObserveSyncDuration(time.Since(start))
	e.metrics.ObserveSubmissionsIngested(result.Ingested)

	e.logger.Info("sync completed",
		"profile_id", profileID,
		"status", result.Status,
		"ingested", result.Ingested,
		"duration_ms", float64(time.Since(start).Microseconds())/1000,
	)

	return result, nil
}

func (e *Engine) run(ctx context.Context, profileID string) (*Result, error) {
	profile, err := e.store.GetProfileByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !profile.SyncEligible() {
		return &Result{Status: StatusSkipped}, nil
	}

	recent, err := e.fetcher.RecentAccepted(ctx, profile.LeetcodeUsername)
	if err != nil {
		return nil, fmt.Errorf("fetch recent accepted: %w", err)
	}

	current := acceptedSlugs(recent)
	if len(current) == 0 {
		// An empty page from a live account is indistinguishable from
		// an upstream hiccup; never let it wipe the snapshot or force
		// a full crawl.
		e.logger.Debug("recent page empty, skipping", "profile_id", profileID)
		return &Result{Status: StatusSkipped}, nil
	}

	snapshot, err := e.store.GetSnapshot(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	switch {
	case slugsEqual(snapshot.Slugs, current):
		// Nothing happened since the last run.
		if err := e.store.TouchLastSynced(ctx, profileID, time.Now().UTC()); err != nil {
			return nil, err
		}
		return &Result{Status: StatusNoChange}, nil

	case len(snapshot.Slugs) > 0 && headIntact(snapshot.Slugs, current):
		return e.appendDelta(ctx, profile, snapshot.Slugs, current, recent)

	default:
		return e.fullResync(ctx, profile, current, recent)
	}
}

// appendDelta ingests only the entries that are new since the snapshot.
func (e *Engine) appendDelta(ctx context.Context, profile *model.Profile, snapshot, current []string, recent []leetcode.SubmissionEntry) (*Result, error) {
	known := make(map[string]struct{}, len(snapshot))
	for _, slug := range snapshot {
		known[slug] = struct{}{}
	}

	var fresh []leetcode.SubmissionEntry
	for _, entry := range recent {
		if _, ok := known[entry.TitleSlug]; !ok {
			fresh = append(fresh, entry)
		}
	}

	ingested, err := e.ingest(ctx, profile.ID, fresh)
	if err != nil {
		return nil, err
	}

	if err := e.finishRun(ctx, profile.ID, current); err != nil {
		return nil, err
	}

	return &Result{Status: StatusAppended, Ingested: ingested}, nil
}

// fullResync crawls the complete authenticated history. Without a
// usable cookie it degrades to ingesting just the recent page.
func (e *Engine) fullResync(ctx context.Context, profile *model.Profile, current []string, recent []leetcode.SubmissionEntry) (*Result, error) {
	session, ok := e.openSession(ctx, profile)
	if !ok {
		// Best effort: keep the recent page so the roadmap is not
		// stuck while the user uploads a fresh cookie.
		ingested, err := e.ingest(ctx, profile.ID, recent)
		if err != nil {
			return nil, err
		}
		if err := e.finishRun(ctx, profile.ID, current); err != nil {
			return nil, err
		}
		return &Result{Status: StatusPartial, Ingested: ingested}, nil
	}

	history, err := e.fetcher.FullHistory(ctx, session)
	if err != nil {
		if errors.Is(err, leetcode.ErrSessionExpired) {
			if markErr := e.store.MarkCookieInvalid(ctx, profile.ID); markErr != nil {
				return nil, fmt.Errorf("mark cookie invalid: %w", markErr)
			}
			e.logger.Warn("session cookie rejected, marked invalid", "profile_id", profile.ID)
			return &Result{Status: StatusCookieInvalid}, nil
		}
		return nil, fmt.Errorf("fetch full history: %w", err)
	}

	var accepted []leetcode.SubmissionEntry
	for _, entry := range history {
		if entry.Accepted() {
			accepted = append(accepted, entry)
		}
	}

	ingested, err := e.ingest(ctx, profile.ID, accepted)
	if err != nil {
		return nil, err
	}

	if err := e.finishRun(ctx, profile.ID, current); err != nil {
		return nil, err
	}

	return &Result{Status: StatusResynced, Ingested: ingested}, nil
}

// openSession unseals the stored cookie. Returns ok=false when there is
// no cookie, the cookie is known-bad, or unsealing fails.
func (e *Engine) openSession(ctx context.Context, profile *model.Profile) (leetcode.Session, bool) {
	if !profile.HasSessionCookie() || !profile.CookieValid {
		return leetcode.Session{}, false
	}

	cookie, err := e.box.Open(profile.SealedSessionCookie)
	if err != nil {
		e.logger.Error("failed to open sealed cookie", "profile_id", profile.ID, "error", err)
		if markErr := e.store.MarkCookieInvalid(ctx, profile.ID); markErr != nil {
			e.logger.Error("failed to mark cookie invalid", "profile_id", profile.ID, "error", markErr)
		}
		return leetcode.Session{}, false
	}

	return leetcode.Session{Cookie: cookie}, true
}

// ingest persists entries as accepted submissions. Only problems in the
// catalog are kept; the roadmap does not track anything else. Duplicate
// rows are skipped by the database, so replays are harmless.
func (e *Engine) ingest(ctx context.Context, profileID string, entries []leetcode.SubmissionEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		slugs = append(slugs, entry.TitleSlug)
	}
	known, err := e.store.ProblemsBySlugs(ctx, slugs)
	if err != nil {
		return 0, fmt.Errorf("resolve catalog slugs: %w", err)
	}

	subs := make([]*model.Submission, 0, len(entries))
	for _, entry := range entries {
		if _, ok := known[entry.TitleSlug]; !ok {
			continue
		}
		subs = append(subs, &model.Submission{
			ID:            ulid.Make().String(),
			ProfileID:     profileID,
			ProblemSlug:   entry.TitleSlug,
			Status:        model.StatusAccepted,
			Language:      entry.Lang,
			Runtime:       entry.Runtime,
			Memory:        entry.Memory,
			SubmissionURL: entry.AbsoluteURL(),
			SubmittedAt:   entry.SubmittedAt(),
		})
	}

	if len(subs) == 0 {
		return 0, nil
	}

	if err := e.store.BulkInsertSubmissions(ctx, subs); err != nil {
		return 0, fmt.Errorf("insert submissions: %w", err)
	}

	return len(subs), nil
}

// finishRun saves the new snapshot, drops the cached roadmap, and
// records the sync time.
func (e *Engine) finishRun(ctx context.Context, profileID string, current []string) error {
	if err := e.store.SaveSnapshot(ctx, profileID, current); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if err := e.caches.InvalidateRoadmap(ctx); err != nil {
		e.logger.Warn("failed to invalidate roadmap cache", "error", err)
	}

	if err := e.store.TouchLastSynced(ctx, profileID, time.Now().UTC()); err != nil {
		return err
	}

	return nil
}

// acceptedSlugs extracts the ordered, de-duplicated slug list from a
// recent-accepted response.
func acceptedSlugs(entries []leetcode.SubmissionEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	slugs := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.Accepted() {
			continue
		}
		if _, ok := seen[entry.TitleSlug]; ok {
			continue
		}
		seen[entry.TitleSlug] = struct{}{}
		slugs = append(slugs, entry.TitleSlug)
	}

	return slugs
}

// slugsEqual compares two ordered slug lists.
func slugsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// headIntact reports whether the leading snapshot slugs all still
// appear in the live list.
func headIntact(snapshot, current []string) bool {
	probe := snapshot
	if len(probe) > snapshotProbe {
		probe = probe[:snapshotProbe]
	}

	live := make(map[string]struct{}, len(current))
	for _, slug := range current {
		live[slug] = struct{}{}
	}

	for _, slug := range probe {
		if _, ok := live[slug]; !ok {
			return false
		}
	}
	return true
}
