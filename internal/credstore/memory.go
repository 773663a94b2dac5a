package credstore

import (
	"context"
	"sync"

	"github.com/healthbridge/wellness-client/internal/domain"
)

// MemoryStore keeps credentials in process memory. Used in tests and for
// ephemeral sessions that should not outlive the process.
type MemoryStore struct {
	mu      sync.Mutex
	session *domain.Session
	user    *domain.UserIdentity
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(ctx context.Context, session *domain.Session, user *domain.UserIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = copySession(session)
	m.user = copyUser(user)
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (*domain.Session, *domain.UserIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.AccessToken == "" {
		return nil, nil, ErrNoSession
	}
	return copySession(m.session), copyUser(m.user), nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.user = nil
	return nil
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func copyUser(u *domain.UserIdentity) *domain.UserIdentity {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
