package handler

import (
	"fmt"
	"net/http"

	"github.com/notesapi/notesapi/internal/metrics"
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

	writeMetric(w, "notesapi_logins_total{outcome=\"existing\"} %d\n", snap.LoginsExisting)
	writeMetric(w, "notesapi_logins_total{outcome=\"created\"} %d\n", snap.LoginsCreated)
	writeMetric(w, "notesapi_logins_total{outcome=\"race\"} %d\n", snap.LoginsRace)

	writeMetric(w, "notesapi_user_cache_hits_total %d\n", snap.UserCacheHits)
	writeMetric(w, "notesapi_user_cache_misses_total %d\n", snap.UserCacheMisses)

	writeMetric(w, "notesapi_notes_created_total %d\n", snap.NotesCreated)
	writeMetric(w, "notesapi_notes_updated_total %d\n", snap.NotesUpdated)
	writeMetric(w, "notesapi_notes_deleted_total %d\n", snap.NotesDeleted)
	writeMetric(w, "notesapi_note_access_denied_total %d\n", snap.NoteAccessDenials)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
