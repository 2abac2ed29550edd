// Package tabs keeps the set of open chat tabs for the bridge CLI.
package tabs

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownTab is returned for tab ids the registry never opened or already closed.
var ErrUnknownTab = errors.New("unknown tab")

// Registry tracks open tabs and which one is active. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.Mutex
	open   map[string]struct{}
	order  []string
	active string
	newID  func() string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		open:  make(map[string]struct{}),
		newID: uuid.NewString,
	}
}

// Open creates a tab, makes it active and returns its id together with the
// previously active tab, if any.
func (r *Registry) Open() (tabID, prevTabID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tabID = r.newID()
	r.open[tabID] = struct{}{}
	r.order = append(r.order, tabID)
	prevTabID, r.active = r.active, tabID
	return tabID, prevTabID
}

// Activate switches to tabID and returns the previously active tab.
func (r *Registry) Activate(tabID string) (prevTabID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.open[tabID]; !ok {
		return "", ErrUnknownTab
	}
	prevTabID, r.active = r.active, tabID
	return prevTabID, nil
}

// Close removes tabID. When it was active, the most recently opened
// remaining tab becomes active.
func (r *Registry) Close(tabID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.open[tabID]; !ok {
		return ErrUnknownTab
	}
	delete(r.open, tabID)
	for i, id := range r.order {
		if id == tabID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.active == tabID {
		r.active = ""
		if n := len(r.order); n > 0 {
			r.active = r.order[n-1]
		}
	}
	return nil
}

// Active returns the active tab.
func (r *Registry) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != ""
}

// Has reports whether tabID is open.
func (r *Registry) Has(tabID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.open[tabID]
	return ok
}

// List returns open tabs in the order they were opened.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}
