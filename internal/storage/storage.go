package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vistalab/camsim/internal/models"
)

// SessionStore keeps one selection per browser session. Stored sessions are
// only handed out as copies.
type SessionStore struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.Session),
	}
}

// Create starts a session with nothing selected.
func (s *SessionStore) Create() (models.Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		ID:        id.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return *session, nil
}

func (s *SessionStore) Get(sessionID string) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return models.Session{}, false
	}
	return *session, true
}

// SetSelection replaces the session's selection. It reports false when the
// session does not exist.
func (s *SessionStore) SetSelection(sessionID string, state models.SelectionState) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return models.Session{}, false
	}
	session.Selection = state
	session.UpdatedAt = time.Now()
	return *session, true
}

func (s *SessionStore) GetAll() map[string]models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]models.Session, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = *v
	}
	return result
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Expire removes sessions not updated since before cutoff and returns how
// many were removed.
func (s *SessionStore) Expire(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
