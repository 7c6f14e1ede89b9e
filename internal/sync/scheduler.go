package sync

import (
	"context"
	"errors"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/leetboard/leetboard/internal/model"
)

// ProfileLister exposes the profiles eligible for scheduled syncs.
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
}

// Scheduler periodically enqueues a sync job for every linked profile.
type Scheduler struct {
	profiles  ProfileLister
	publisher *Publisher
	logger    *slog.Logger
	interval  time.Duration

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      stdsync.Mutex
}

// NewScheduler creates a sync scheduler.
func NewScheduler(profiles ProfileLister, publisher *Publisher, logger *slog.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		profiles:  profiles,
		publisher: publisher,
		logger:    logger.With("component", "sync.scheduler"),
		interval:  interval,
	}
}

// Run starts the scheduling loop. Blocks until context is cancelled.
// The first pass runs immediately so a fresh deployment does not wait a
// full interval before syncing anyone.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	s.done = make(chan struct{})
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	defer close(s.done)

	s.logger.Info("sync scheduler started", "interval", s.interval.String())

	s.enqueueAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.enqueueAll(ctx)
		}
	}
}

// Shutdown stops the scheduler.
// It implements server.ShutdownFunc for integration with graceful shutdown.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// enqueueAll publishes one scheduled job per eligible profile.
func (s *Scheduler) enqueueAll(ctx context.Context) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		s.logger.Error("failed to list profiles for scheduling", "error", err)
		return
	}

	enqueued := 0
	for _, profile := range profiles {
		if !profile.SyncEligible() {
			continue
		}

		job := JobPayload{
			ProfileID:   profile.ID,
			Trigger:     TriggerScheduled,
			RequestedAt: time.Now().UnixMilli(),
		}

		if _, err := s.publisher.Publish(ctx, job); err != nil {
			s.logger.Warn("failed to enqueue scheduled sync",
				"profile_id", profile.ID,
				"error", err,
			)
			continue
		}
		enqueued++
	}

	s.logger.Info("scheduled sync pass complete",
		"profiles", len(profiles),
		"enqueued", enqueued,
	)
}
