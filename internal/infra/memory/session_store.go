package memory

import (
	"sync"
	"time"

	"ai-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository. Sessions
// are keyed by client ID so a reconnecting client resumes its quiz in progress.
// Sessions untouched for longer than ttl are dropped on the next GetOrCreate.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(clientID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	if session, ok := s.sessions[clientID]; ok {
		return session
	}
	session := app.NewSessionWithClock(s.clock, app.NewResultID)
	s.sessions[clientID] = session
	return session
}

func (s *SessionStore) Get(clientID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[clientID]
	return session, ok
}

// DeleteIfIdle forgets a session with no quiz in progress.
func (s *SessionStore) DeleteIfIdle(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[clientID]
	if !ok {
		return
	}
	if !session.Active() {
		delete(s.sessions, clientID)
	}
}

func (s *SessionStore) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.clock().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.TouchedAt().Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
