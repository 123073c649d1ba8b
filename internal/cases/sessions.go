package cases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle staging session is kept before it
// is discarded.
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	set      *StagingSet
	lastUsed time.Time
}

// SessionRegistry owns the in-flight staging sessions. A session is
// created on upload, touched on every access, and discarded on reset,
// successful commit, or TTL expiry.
type SessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*session
}

// NewSessionRegistry creates a registry with the given TTL; zero means
// DefaultSessionTTL.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRegistry{
		ttl:      ttl,
		sessions: make(map[string]*session),
	}
}

// Create registers a new staging set and returns its session ID.
func (r *SessionRegistry) Create(set *StagingSet) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &session{set: set, lastUsed: time.Now()}
	r.mu.Unlock()
	return id
}

// Get returns the staging set for a session, refreshing its TTL.
// Expired or unknown sessions return ErrSessionNotFound.
func (r *SessionRegistry) Get(id string) (*StagingSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(s.lastUsed) > r.ttl {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	s.lastUsed = time.Now()
	return s.set, nil
}

// Discard removes a session. Missing sessions are ignored.
func (r *SessionRegistry) Discard(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartJanitor sweeps expired sessions until ctx is cancelled.
func (r *SessionRegistry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *SessionRegistry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if time.Since(s.lastUsed) > r.ttl {
			delete(r.sessions, id)
		}
	}
}
