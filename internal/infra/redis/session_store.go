package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"netquiz/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Counting stays local; each server only answers for its own sessions.
//   - Redis holds a liveness marker per session with a TTL, so operators can
//     see live participants across instances and stale markers expire on
//     their own after a crash.
//   - Touch extends the TTL on every answer. A participant idle for longer
//     than the TTL drops out of Redis while the session itself stays open;
//     the marker is best-effort.
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]app.SessionInfo
}

func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]app.SessionInfo),
	}
}

func (s *SessionStore) Register(ctx context.Context, info app.SessionInfo) {
	s.mu.Lock()
	s.sessions[info.ID] = info
	s.mu.Unlock()

	// best-effort liveness marker
	payload, _ := json.Marshal(info)
	if err := s.client.Set(ctx, s.key(info.ID), payload, s.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "redis: register session failed", "session", info.ID, "error", err)
	}
}

func (s *SessionStore) Touch(ctx context.Context, sessionID string) {
	if s.ttl <= 0 {
		return
	}
	if err := s.client.Expire(ctx, s.key(sessionID), s.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "redis: touch session failed", "session", sessionID, "error", err)
	}
}

func (s *SessionStore) Deregister(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		slog.WarnContext(ctx, "redis: deregister session failed", "session", sessionID, "error", err)
	}
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
