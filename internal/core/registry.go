package core

import (
	"sync"
	"time"

	"github.com/tablemend/tablemend/internal/diff"
	"github.com/tablemend/tablemend/internal/table"
)

// Session is one comparison run: the parsed original table, the difference
// store carrying per-entry decisions, and labels for the two source files.
// Reconciliation state lives only here; nothing is persisted across runs.
type Session struct {
	ID           string
	OriginalName string
	UpdatedName  string
	Original     table.Table
	Store        *diff.Store
	CreatedAt    time.Time

	mu sync.Mutex
}

// Lock serializes access to the session's store, which is not itself safe
// for concurrent use.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionRegistry tracks live comparison sessions by ID.
//
// It is an explicitly constructed instance owned by the Service; there is
// no package-level registry and no hidden shared state. When the session
// count exceeds the limit, the oldest session is evicted; reconciliation
// state is in-memory only and sessions are expected to be short-lived.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string // insertion order, oldest first
	limit    int
}

// NewSessionRegistry creates a registry capped at limit sessions.
// A limit of zero or below means unbounded.
func NewSessionRegistry(limit int) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		limit:    limit,
	}
}

// Add registers a session, evicting the oldest if the cap is exceeded.
func (r *SessionRegistry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; !exists {
		r.order = append(r.order, s.ID)
	}
	r.sessions[s.ID] = s

	for r.limit > 0 && len(r.order) > r.limit {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.sessions, oldest)
	}
}

// Get returns the session for id, or false if it is unknown or evicted.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes a session. Returns false if the ID was unknown.
func (r *SessionRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
