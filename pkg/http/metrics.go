// Package http serves connector counters and pprof for debugging.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/tiancaiamao/chatconnector/pkg/connector"
)

// MetricsSource is anything that can report connector counters.
type MetricsSource interface {
	Metrics() connector.MetricsSnapshot
}

// MetricsHandler provides HTTP endpoints for metrics.
type MetricsHandler struct {
	source MetricsSource
}

// NewMetricsHandler creates a new metrics HTTP handler.
func NewMetricsHandler(source MetricsSource) *MetricsHandler {
	return &MetricsHandler{source: source}
}

// RegisterRoutes registers metrics endpoints with HTTP mux.
func (h *MetricsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/metrics", h.handleMetrics)
	mux.HandleFunc("/metrics/events", h.handleEvents)
	mux.HandleFunc("/metrics/commands", h.handleCommands)
	mux.HandleFunc("/metrics/health", h.handleHealth)

	// Prometheus-style metrics (text format)
	mux.HandleFunc("/metrics/prometheus", h.handlePrometheus)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleMetrics returns the full snapshot as JSON.
func (h *MetricsHandler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.source.Metrics())
}

// handleEvents returns inbound event counts. ?type= narrows to one event type.
func (h *MetricsHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, filterCounts(h.source.Metrics().Events, r.URL.Query().Get("type")))
}

// handleCommands returns outbound command counts. ?command= narrows to one command.
func (h *MetricsHandler) handleCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, filterCounts(h.source.Metrics().Commands, r.URL.Query().Get("command")))
}

func filterCounts(counts map[string]int64, key string) map[string]int64 {
	if key == "" {
		return counts
	}
	return map[string]int64{key: counts[key]}
}

func (h *MetricsHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	m := h.source.Metrics()

	var events int64
	for _, n := range m.Events {
		events += n
	}
	writeJSON(w, struct {
		Status  string        `json:"status"`
		Uptime  time.Duration `json:"uptime"`
		Events  int64         `json:"events"`
		Dropped int64         `json:"dropped"`
	}{
		Status:  "healthy",
		Uptime:  m.Uptime,
		Events:  events,
		Dropped: m.UnknownEvents + m.MalformedEvents,
	})
}

// handlePrometheus returns metrics in Prometheus text format.
func (h *MetricsHandler) handlePrometheus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	m := h.source.Metrics()

	fmt.Fprintf(w, "# HELP chatconnector_uptime_seconds Connector uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE chatconnector_uptime_seconds gauge\n")
	fmt.Fprintf(w, "chatconnector_uptime_seconds %.2f\n", m.Uptime.Seconds())

	fmt.Fprintf(w, "\n# HELP chatconnector_events_total Host events dispatched by type\n")
	fmt.Fprintf(w, "# TYPE chatconnector_events_total counter\n")
	for _, k := range sortedKeys(m.Events) {
		fmt.Fprintf(w, "chatconnector_events_total{type=\"%s\"} %d\n", sanitizeLabel(k), m.Events[k])
	}

	fmt.Fprintf(w, "\n# HELP chatconnector_commands_total Commands sent to the host\n")
	fmt.Fprintf(w, "# TYPE chatconnector_commands_total counter\n")
	for _, k := range sortedKeys(m.Commands) {
		fmt.Fprintf(w, "chatconnector_commands_total{command=\"%s\"} %d\n", sanitizeLabel(k), m.Commands[k])
	}

	fmt.Fprintf(w, "\n# HELP chatconnector_dropped_total Host messages dropped before dispatch\n")
	fmt.Fprintf(w, "# TYPE chatconnector_dropped_total counter\n")
	fmt.Fprintf(w, "chatconnector_dropped_total{reason=\"unknown\"} %d\n", m.UnknownEvents)
	fmt.Fprintf(w, "chatconnector_dropped_total{reason=\"malformed\"} %d\n", m.MalformedEvents)

	fmt.Fprintf(w, "\n# HELP chatconnector_ignored_chats_total Chat messages without content\n")
	fmt.Fprintf(w, "# TYPE chatconnector_ignored_chats_total counter\n")
	fmt.Fprintf(w, "chatconnector_ignored_chats_total %d\n", m.IgnoredChats)

	fmt.Fprintf(w, "\n# HELP chatconnector_tracked_triggers Trigger ids waiting for a stream end\n")
	fmt.Fprintf(w, "# TYPE chatconnector_tracked_triggers gauge\n")
	fmt.Fprintf(w, "chatconnector_tracked_triggers %d\n", m.TrackedTriggers)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// sanitizeLabel escapes a label value for the text exposition format.
func sanitizeLabel(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(v)
}
