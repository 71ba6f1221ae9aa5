package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/pkg/errors"
)

// Session is the explicit per-student state of one portal visit: the
// reference record loaded at login, reused for the invoice page and
// for every validation call until logout or expiry.
type Session struct {
	Token      string
	Assignment string
	Record     *model.Declaration
	CreatedAt  time.Time
}

// Manager keeps sessions in memory behind a lock. Sessions expire
// after the configured TTL; expired entries are dropped lazily on
// access and swept whenever a new session is created.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Manager) Create(assignment string, record *model.Declaration) *Session {
	s := &Session{
		Token:      uuid.NewString(),
		Assignment: assignment,
		Record:     record,
		CreatedAt:  m.now(),
	}

	m.mu.Lock()
	m.sweepLocked()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	if m.expired(s) {
		m.Delete(token)
		return nil, errors.ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Delete(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func (m *Manager) expired(s *Session) bool {
	return m.ttl > 0 && m.now().Sub(s.CreatedAt) > m.ttl
}

func (m *Manager) sweepLocked() {
	for token, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, token)
		}
	}
}
