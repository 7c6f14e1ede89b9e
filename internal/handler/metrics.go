package handler

import (
	"fmt"
	"net/http"

	"github.com/leetboard/leetboard/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "leetboard_roadmap_cache_hits_total %d\n", snap.RoadmapCacheHits)
	writeMetric(w, "leetboard_roadmap_cache_misses_total %d\n", snap.RoadmapCacheMisses)
	writeMetric(w, "leetboard_roadmap_duration_seconds_count %d\n", snap.RoadmapDurationCount)
	writeMetric(w, "leetboard_roadmap_duration_seconds_sum %.6f\n", float64(snap.RoadmapDurationTotalNs)/1e9)

	writeMetric(w, "leetboard_problems_created_total %d\n", snap.ProblemsCreated)
	writeMetric(w, "leetboard_problems_updated_total %d\n", snap.ProblemsUpdated)

	writeMetric(w, "leetboard_sync_jobs_published_total{status=\"success\"} %d\n", snap.SyncJobsPublished)
	writeMetric(w, "leetboard_sync_jobs_published_total{status=\"dropped\"} %d\n", snap.SyncJobsDropped)

	writeMetric(w, "leetboard_sync_jobs_processed_total{status=\"success\"} %d\n", snap.SyncJobsProcessed)
	writeMetric(w, "leetboard_sync_jobs_processed_total{status=\"failed\"} %d\n", snap.SyncJobsFailed)
	writeMetric(w, "leetboard_sync_jobs_processed_total{status=\"skipped\"} %d\n", snap.SyncJobsSkipped)
	writeMetric(w, "leetboard_sync_jobs_processed_total{status=\"dead_lettered\"} %d\n", snap.SyncJobsDeadLettered)

	writeMetric(w, "leetboard_sync_duration_seconds_count %d\n", snap.SyncDurationCount)
	writeMetric(w, "leetboard_sync_duration_seconds_sum %.6f\n", float64(snap.SyncDurationTotalNs)/1e9)
	writeMetric(w, "leetboard_sync_submissions_ingested_total %d\n", snap.SubmissionsIngested)
	writeMetric(w, "leetboard_sync_queue_depth %d\n", snap.SyncQueueDepth)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
