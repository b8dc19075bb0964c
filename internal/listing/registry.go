// internal/listing/registry.go
package listing

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Registry owns one store per console session for a single screen.
type Registry[T any] struct {
	newStore func() *Store[T]
	clock    clockwork.Clock

	mu      sync.Mutex
	entries map[string]*registryEntry[T]
}

type registryEntry[T any] struct {
	store    *Store[T]
	lastUsed time.Time
}

func NewRegistry[T any](clock clockwork.Clock, newStore func() *Store[T]) *Registry[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Registry[T]{
		newStore: newStore,
		clock:    clock,
		entries:  make(map[string]*registryEntry[T]),
	}
}

// For returns the store of sessionID, creating it on first use.
func (r *Registry[T]) For(sessionID string) *Store[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &registryEntry[T]{store: r.newStore()}
		r.entries[sessionID] = entry
	}
	entry.lastUsed = r.clock.Now()
	return entry.store
}

func (r *Registry[T]) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

// Sweep removes stores unused for longer than idle and reports how many
// were removed.
func (r *Registry[T]) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-idle)
	removed := 0
	for id, entry := range r.entries {
		if entry.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
