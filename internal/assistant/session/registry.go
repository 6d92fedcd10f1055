package session

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/finassist/internal/common"
)

const defaultProfileID = common.DefaultProfileID

// Registry keeps live sessions by id until they are ended or go idle.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session), now: time.Now}
}

// CreateFor registers a session belonging to owner, the authenticated
// subject that started it.
func (r *Registry) CreateFor(owner, profileID, persona string) *Session {
	s := New(profileID, persona)
	s.owner = owner

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	return s
}

// Get returns the session or common.ErrorNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// OwnsProfile reports whether owner has a live session on profileID.
func (r *Registry) OwnsProfile(owner, profileID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.owner == owner && s.profileID == profileID {
			return true
		}
	}
	return false
}

// EvictIdle drops sessions without a turn for longer than idle and returns
// how many were removed.
func (r *Registry) EvictIdle(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
