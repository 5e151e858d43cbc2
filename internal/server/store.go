package server

import (
	"errors"
	"sync"
	"time"

	"quizdeck/internal/quiz"
)

// errSessionNotFound reports an unknown or expired session id.
var errSessionNotFound = errors.New("session not found")

// sessionStore keeps running sessions in memory. Each entry has its own lock
// so transitions on one session are serialized without blocking the others.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

type sessionEntry struct {
	mu      sync.Mutex
	session quiz.Session
	touched time.Time
}

func newSessionStore(ttl time.Duration, now func() time.Time) *sessionStore {
	if now == nil {
		now = time.Now
	}
	return &sessionStore{
		sessions: map[string]*sessionEntry{},
		ttl:      ttl,
		now:      now,
	}
}

func (s *sessionStore) add(session quiz.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.sessions[session.ID] = &sessionEntry{session: session, touched: s.now()}
}

func (s *sessionStore) entry(id string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	return entry, nil
}

// get returns a snapshot of a session.
func (s *sessionStore) get(id string) (quiz.Session, error) {
	entry, err := s.entry(id)
	if err != nil {
		return quiz.Session{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session, nil
}

// update applies a transition under the session lock and stores the result.
func (s *sessionStore) update(id string, transition func(quiz.Session) (quiz.Session, []quiz.Effect)) (quiz.Session, []quiz.Effect, error) {
	entry, err := s.entry(id)
	if err != nil {
		return quiz.Session{}, nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	next, effects := transition(entry.session)
	entry.session = next
	entry.touched = s.now()
	return next, effects, nil
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.sessions)
}

// pruneLocked drops sessions idle for longer than the ttl. A zero ttl keeps
// sessions until they are deleted.
func (s *sessionStore) pruneLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.touched.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
		}
	}
}
