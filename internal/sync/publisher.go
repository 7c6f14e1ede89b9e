// Package sync pulls submission history from LeetCode and reconciles it
// with the local database.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/leetboard/leetboard/internal/metrics"
)

const (
	// StreamKey is the Redis stream for sync jobs.
	StreamKey = "stream:sync_jobs"

	// DeadLetterStreamKey is the Redis stream for poison messages.
	DeadLetterStreamKey = "stream:sync_jobs:dlq"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 10000
)

// Job triggers.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// JobPayload is the compact job format for the Redis stream.
type JobPayload struct {
	ProfileID   string `json:"pid"`
	Trigger     string `json:"tr"`
	RequestedAt int64  `json:"t"` // Unix milliseconds
}

// Publisher enqueues sync jobs to the Redis stream.
type Publisher struct {
	redis   *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a new sync job publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "sync.publisher"),
		metrics: recorder,
	}
}

// Publish adds a sync job to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, job JobPayload) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true, // ~MAXLEN for performance
		ID:     "*",  // Auto-generate ID
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()

	if err != nil {
		p.metrics.IncSyncJobPublished("dropped")
		return "", fmt.Errorf("xadd: %w", err)
	}

	p.metrics.IncSyncJobPublished("success")
	return result, nil
}
