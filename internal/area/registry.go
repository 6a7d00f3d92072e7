package area

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry holds independent areas by ID. Areas share no state, so
// commands for different areas run in parallel.
type Registry struct {
	areas    map[string]*Area
	notifier Notifier
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry whose areas report to notifier.
func NewRegistry(notifier Notifier) *Registry {
	return &Registry{
		areas:    make(map[string]*Area),
		notifier: notifier,
	}
}

// Create adds a new area and returns it.
func (r *Registry) Create() *Area {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()[:8]
	for r.areas[id] != nil {
		id = uuid.New().String()[:8]
	}
	a := New(id, r.notifier)
	r.areas[id] = a
	return a
}

// Get retrieves an area by ID.
func (r *Registry) Get(id string) (*Area, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.areas[id]
	return a, exists
}

// IDs lists every area ID in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.areas))
	for id := range r.areas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
