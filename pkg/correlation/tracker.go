// Package correlation remembers which tab took an editor-triggered request
// so that host responses carrying only a trigger id can find their tab.
package correlation

import (
	"sync"
	"time"
)

type entry struct {
	tabID    string
	recorded time.Time
}

// Tracker maps trigger ids to tab ids. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewTracker creates a tracker. Entries older than ttl are dropped on the
// next Record or access; ttl <= 0 keeps entries until they are taken.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Record stores the tab resolved for triggerID, replacing any previous entry.
// Empty ids are ignored.
func (t *Tracker) Record(triggerID, tabID string) {
	if triggerID == "" || tabID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweep()
	t.entries[triggerID] = entry{tabID: tabID, recorded: t.now()}
}

// Lookup returns the tab recorded for triggerID without removing it.
func (t *Tracker) Lookup(triggerID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.get(triggerID)
	return e.tabID, ok
}

// Take returns and removes the tab recorded for triggerID.
func (t *Tracker) Take(triggerID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.get(triggerID)
	if ok {
		delete(t.entries, triggerID)
	}
	return e.tabID, ok
}

// Len returns the number of live entries.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweep()
	return len(t.entries)
}

// get must be called with mu held.
func (t *Tracker) get(triggerID string) (entry, bool) {
	e, ok := t.entries[triggerID]
	if !ok {
		return entry{}, false
	}
	if t.expired(e) {
		delete(t.entries, triggerID)
		return entry{}, false
	}
	return e, true
}

// sweep must be called with mu held.
func (t *Tracker) sweep() {
	if t.ttl <= 0 {
		return
	}
	for id, e := range t.entries {
		if t.expired(e) {
			delete(t.entries, id)
		}
	}
}

func (t *Tracker) expired(e entry) bool {
	return t.ttl > 0 && t.now().Sub(e.recorded) > t.ttl
}
