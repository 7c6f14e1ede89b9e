// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Roadmap metrics
	IncRoadmapCacheHit()
	IncRoadmapCacheMiss()
	ObserveRoadmapDuration(duration time.Duration)

	// Catalog metrics
	IncProblemCreated()
	IncProblemUpdated()

	// Sync pipeline metrics
	IncSyncJobPublished(status string) // status: "success" or "dropped"
	IncSyncJobProcessed(status string) // status: "success", "failed", "skipped", "dead_lettered"
	ObserveSyncDuration(duration time.Duration)
	ObserveSubmissionsIngested(count int)
	SetSyncQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
