package memory

import (
	"context"
	"sync"

	"netquiz/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]app.SessionInfo
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]app.SessionInfo),
	}
}

func (s *SessionStore) Register(_ context.Context, info app.SessionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[info.ID] = info
}

func (s *SessionStore) Get(sessionID string) (app.SessionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.sessions[sessionID]
	return info, ok
}

// Touch is a no-op; in-process entries live until Deregister.
func (s *SessionStore) Touch(context.Context, string) {}

func (s *SessionStore) Deregister(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
