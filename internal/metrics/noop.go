package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRoadmapCacheHit is a no-op.
func (n *NoopRecorder) IncRoadmapCacheHit() {}

// IncRoadmapCacheMiss is a no-op.
func (n *NoopRecorder) IncRoadmapCacheMiss() {}

// ObserveRoadmapDuration is a no-op.
func (n *NoopRecorder) ObserveRoadmapDuration(duration time.Duration) {}

// IncProblemCreated is a no-op.
func (n *NoopRecorder) IncProblemCreated() {}

// IncProblemUpdated is a no-op.
func (n *NoopRecorder) IncProblemUpdated() {}

// IncSyncJobPublished is a no-op.
func (n *NoopRecorder) IncSyncJobPublished(status string) {}

// IncSyncJobProcessed is a no-op.
func (n *NoopRecorder) IncSyncJobProcessed(status string) {}

// ObserveSyncDuration is a no-op.
func (n *NoopRecorder) ObserveSyncDuration(duration time.Duration) {}

// ObserveSubmissionsIngested is a no-op.
func (n *NoopRecorder) ObserveSubmissionsIngested(count int) {}

// SetSyncQueueDepth is a no-op.
func (n *NoopRecorder) SetSyncQueueDepth(depth int64) {}
