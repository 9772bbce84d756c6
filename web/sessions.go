package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phux/phishcheck/app"
)

// sessionStore keeps one app.Session per browser in memory. Sessions idle
// for longer than ttl are dropped, unless an analysis is still running.
type sessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*app.Session
	ttl        time.Duration
	newSession func() *app.Session
	now        func() time.Time
	lastSweep  time.Time
}

func newSessionStore(ttl time.Duration, newSession func() *app.Session) *sessionStore {
	return &sessionStore{
		sessions:   map[string]*app.Session{},
		ttl:        ttl,
		newSession: newSession,
		now:        time.Now,
		lastSweep:  time.Now(),
	}
}

// get returns the session for id, creating one under a fresh id when id is
// unknown. The boolean reports whether a session was created.
func (s *sessionStore) get(id string) (*app.Session, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.lookupLocked(id); ok {
		return session, id, false
	}

	id = uuid.NewString()
	session := s.newSession()
	s.sessions[id] = session

	return session, id, true
}

// lookup returns the stored session for id without creating one.
func (s *sessionStore) lookup(id string) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookupLocked(id)
}

func (s *sessionStore) lookupLocked(id string) (*app.Session, bool) {
	s.sweepLocked()

	session, ok := s.sessions[id]
	if !ok || id == "" {
		return nil, false
	}
	session.Touch(s.now())

	return session, true
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *sessionStore) sweepLocked() {
	now := s.now()
	if now.Sub(s.lastSweep) < s.ttl/2 {
		return
	}
	s.lastSweep = now

	for id, session := range s.sessions {
		if session.Snapshot().Busy() {
			continue
		}
		if now.Sub(session.LastActive()) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
