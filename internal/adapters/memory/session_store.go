package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

// SessionStore хранит сессии в памяти процесса. Значения хранятся в JSON,
// поэтому вызывающий никогда не держит ссылку на сохраненное состояние.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[domain.SessionKey][]byte
}

// NewSessionStore создает пустое хранилище.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[domain.SessionKey][]byte)}
}

// Get возвращает копию сессии или пустую сессию.
func (s *SessionStore) Get(_ context.Context, key domain.SessionKey) (*domain.Session, error) {
	s.mu.Lock()
	raw, ok := s.sessions[key]
	s.mu.Unlock()

	if !ok {
		return &domain.Session{}, nil
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("memory session store: corrupted session %s: %w", key, err)
	}
	return &session, nil
}

// Save сохраняет копию сессии.
func (s *SessionStore) Save(_ context.Context, key domain.SessionKey, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("memory session store: failed to marshal session %s: %w", key, err)
	}
	s.mu.Lock()
	s.sessions[key] = raw
	s.mu.Unlock()
	return nil
}

// Clear удаляет сессию.
func (s *SessionStore) Clear(_ context.Context, key domain.SessionKey) error {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
	return nil
}

// Len возвращает количество сохраненных сессий.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
