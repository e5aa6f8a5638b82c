package records

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds the live editor sessions. Each session belongs to one user
// agent; the mutex only protects the map, not the sessions themselves, per
// the single-user-per-session interaction model.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewRegistry creates a session registry with the given idle TTL.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create starts a new session and returns it.
func (r *Registry) Create() *Session {
	s := NewSession(uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked()
	r.sessions[s.ID] = s
	return s
}

// Get returns the session with the given id, refreshing its idle timer.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked()

	s, ok := r.sessions[id]
	if ok {
		s.touchedAt = time.Now()
	}
	return s, ok
}

// Remove drops a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) purgeLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.touchedAt.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
