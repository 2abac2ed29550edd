package connector

import (
	"maps"
	"sync"
	"time"
)

// Metrics counts traffic through one connector.
type Metrics struct {
	mu        sync.Mutex
	started   time.Time
	events    map[string]int64
	commands  map[string]int64
	unknown   int64
	malformed int64
	ignored   int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Uptime          time.Duration    `json:"uptime"`
	Events          map[string]int64 `json:"events"`   // dispatched, by event type
	Commands        map[string]int64 `json:"commands"` // sent, by command
	UnknownEvents   int64            `json:"unknownEvents"`
	MalformedEvents int64            `json:"malformedEvents"`
	IgnoredChats    int64            `json:"ignoredChats"` // chat messages without content
	TrackedTriggers int              `json:"trackedTriggers"`
}

func newMetrics() *Metrics {
	return &Metrics{
		started:  time.Now(),
		events:   make(map[string]int64),
		commands: make(map[string]int64),
	}
}

func (m *Metrics) event(eventType string) {
	m.mu.Lock()
	m.events[eventType]++
	m.mu.Unlock()
}

func (m *Metrics) command(command string) {
	m.mu.Lock()
	m.commands[command]++
	m.mu.Unlock()
}

func (m *Metrics) drop(unknown bool) {
	m.mu.Lock()
	if unknown {
		m.unknown++
	} else {
		m.malformed++
	}
	m.mu.Unlock()
}

func (m *Metrics) ignoredChat() {
	m.mu.Lock()
	m.ignored++
	m.mu.Unlock()
}

func (m *Metrics) snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Uptime:          time.Since(m.started),
		Events:          maps.Clone(m.events),
		Commands:        maps.Clone(m.commands),
		UnknownEvents:   m.unknown,
		MalformedEvents: m.malformed,
		IgnoredChats:    m.ignored,
	}
}

// Metrics returns a snapshot of this connector's counters.
func (c *Connector) Metrics() MetricsSnapshot {
	s := c.metrics.snapshot()
	s.TrackedTriggers = c.tracker.Len()
	return s
}
