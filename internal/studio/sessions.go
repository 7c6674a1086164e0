package studio

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
)

const sessionHeader = "X-Session-ID"

// sessionRegistry keeps one analytics session per chart builder. When full,
// the least recently used session is evicted.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*analytics.Session
	max      int
	create   func(id string) *analytics.Session
}

func newSessionRegistry(max int, create func(id string) *analytics.Session) *sessionRegistry {
	return &sessionRegistry{
		sessions: map[string]*analytics.Session{},
		max:      max,
		create:   create,
	}
}

// get returns the session for id, creating it when needed. An empty id gets a
// fresh session with a generated id.
func (r *sessionRegistry) get(id string) *analytics.Session {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}
	if r.max > 0 && len(r.sessions) >= r.max {
		r.evictOldest()
	}
	s := r.create(id)
	r.sessions[id] = s
	return s
}

func (r *sessionRegistry) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, s := range r.sessions {
		if used := s.LastUsed(); oldestID == "" || used.Before(oldest) {
			oldestID, oldest = id, used
		}
	}
	delete(r.sessions, oldestID)
}

// sweep removes sessions idle for longer than idle and reports how many went.
func (r *sessionRegistry) sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if time.Since(s.LastUsed()) > idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
