package inmem

import (
	"context"
	"sync"
	"time"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]models.Session)}
}

func (s *SessionStore) Create(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	s.sessions[string(session.TokenHash)] = session
	return nil
}

func (s *SessionStore) GetByTokenHash(_ context.Context, hash []byte) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[string(hash)]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) DeleteByTokenHash(_ context.Context, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[string(hash)]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(s.sessions, string(hash))
	return nil
}

func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, key)
			n++
		}
	}
	return n, nil
}
