package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 12 * time.Hour

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// Registry maps browser session ids to sessions. Nothing is persisted;
// idle sessions are dropped by Cleanup.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry), now: time.Now}
}

// Create registers a new session and returns its id.
func (r *Registry) Create() (string, *Session) {
	id := uuid.NewString()
	s := New()
	r.mu.Lock()
	r.entries[id] = &entry{sess: s, lastSeen: r.now()}
	r.mu.Unlock()
	return id, s
}

// Get returns the session for id and marks it as seen.
func (r *Registry) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.sess, true
}

// Delete drops a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Cleanup removes sessions idle for longer than ttl and returns how many
// were removed. Busy sessions are kept.
func (r *Registry) Cleanup(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) && !e.sess.Busy() {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}
