package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RoadmapCacheHits       uint64
	RoadmapCacheMisses     uint64
	RoadmapDurationCount   uint64
	RoadmapDurationTotalNs int64
	ProblemsCreated        uint64
	ProblemsUpdated        uint64
	SyncJobsPublished      uint64
	SyncJobsDropped        uint64
	SyncJobsProcessed      uint64
	SyncJobsFailed         uint64
	SyncJobsSkipped        uint64
	SyncJobsDeadLettered   uint64
	SyncDurationCount      uint64
	SyncDurationTotalNs    int64
	SubmissionsIngested    uint64
	SyncQueueDepth         int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	roadmapCacheHits       uint64
	roadmapCacheMisses     uint64
	roadmapDurationCount   uint64
	roadmapDurationTotalNs int64
	problemsCreated        uint64
	problemsUpdated        uint64
	syncJobsPublished      uint64
	syncJobsDropped        uint64
	syncJobsProcessed      uint64
	syncJobsFailed         uint64
	syncJobsSkipped        uint64
	syncJobsDeadLettered   uint64
	syncDurationCount      uint64
	syncDurationTotalNs    int64
	submissionsIngested    uint64
	syncQueueDepth         int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RoadmapCacheHits:       atomic.LoadUint64(&m.roadmapCacheHits),
		RoadmapCacheMisses:     atomic.LoadUint64(&m.roadmapCacheMisses),
		RoadmapDurationCount:   atomic.LoadUint64(&m.roadmapDurationCount),
		RoadmapDurationTotalNs: atomic.LoadInt64(&m.roadmapDurationTotalNs),
		ProblemsCreated:        atomic.LoadUint64(&m.problemsCreated),
		ProblemsUpdated:        atomic.LoadUint64(&m.problemsUpdated),
		SyncJobsPublished:      atomic.LoadUint64(&m.syncJobsPublished),
		SyncJobsDropped:        atomic.LoadUint64(&m.syncJobsDropped),
		SyncJobsProcessed:      atomic.LoadUint64(&m.syncJobsProcessed),
		SyncJobsFailed:         atomic.LoadUint64(&m.syncJobsFailed),
		SyncJobsSkipped:        atomic.LoadUint64(&m.syncJobsSkipped),
		SyncJobsDeadLettered:   atomic.LoadUint64(&m.syncJobsDeadLettered),
		SyncDurationCount:      atomic.LoadUint64(&m.syncDurationCount),
		SyncDurationTotalNs:    atomic.LoadInt64(&m.syncDurationTotalNs),
		SubmissionsIngested:    atomic.LoadUint64(&m.submissionsIngested),
		SyncQueueDepth:         atomic.LoadInt64(&m.syncQueueDepth),
	}
}

// IncRoadmapCacheHit increments the roadmap cache hit counter.
func (m *InMemoryRecorder) IncRoadmapCacheHit() {
	atomic.AddUint64(&m.roadmapCacheHits, 1)
}

// IncRoadmapCacheMiss increments the roadmap cache miss counter.
func (m *InMemoryRecorder) IncRoadmapCacheMiss() {
	atomic.AddUint64(&m.roadmapCacheMisses, 1)
}

// ObserveRoadmapDuration records roadmap build duration.
func (m *InMemoryRecorder) ObserveRoadmapDuration(duration time.Duration) {
	atomic.AddUint64(&m.roadmapDurationCount, 1)
	atomic.AddInt64(&m.roadmapDurationTotalNs, duration.Nanoseconds())
}

// IncProblemCreated increments the problem created counter.
func (m *InMemoryRecorder) IncProblemCreated() {
	atomic.AddUint64(&m.problemsCreated, 1)
}

// IncProblemUpdated increments the problem updated counter.
func (m *InMemoryRecorder) IncProblemUpdated() {
	atomic.AddUint64(&m.problemsUpdated, 1)
}

// IncSyncJobPublished increments the sync job published counter.
func (m *InMemoryRecorder) IncSyncJobPublished(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.syncJobsPublished, 1)
	case "dropped":
		atomic.AddUint64(&m.syncJobsDropped, 1)
	}
}

// IncSyncJobProcessed increments sync job outcome counters.
func (m *InMemoryRecorder) IncSyncJobProcessed(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.syncJobsProcessed, 1)
	case "failed":
		atomic.AddUint64(&m.syncJobsFailed, 1)
	case "skipped":
		atomic.AddUint64(&m.syncJobsSkipped, 1)
	case "dead_lettered":
		atomic.AddUint64(&m.syncJobsDeadLettered, 1)
	}
}

// ObserveSyncDuration records sync run duration.
func (m *InMemoryRecorder) ObserveSyncDuration(duration time.Duration) {
	atomic.AddUint64(&m.syncDurationCount, 1)
	atomic.AddInt64(&m.syncDurationTotalNs, duration.Nanoseconds())
}

// ObserveSubmissionsIngested adds to the ingested submissions counter.
func (m *InMemoryRecorder) ObserveSubmissionsIngested(count int) {
	if count > 0 {
		atomic.AddUint64(&m.submissionsIngested, uint64(count))
	}
}

// SetSyncQueueDepth records the current stream backlog.
func (m *InMemoryRecorder) SetSyncQueueDepth(depth int64) {
	atomic.StoreInt64(&m.syncQueueDepth, depth)
}
