package session

import (
	"context"
	"errors"
	"sync"

	"github.com/clinicassist/appointment-agent/internal/agent"
)

// ErrNotFound is returned when no state exists for a session id.
var ErrNotFound = errors.New("session: not found")

// Store persists conversation state between turns.
type Store interface {
	Load(ctx context.Context, sessionID string) (*agent.State, error)
	Save(ctx context.Context, sessionID string, st *agent.State) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps conversation state in process memory. Suitable for a
// single-instance deployment and for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*agent.State
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*agent.State)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*agent.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return st.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, st *agent.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = st.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

var _ Store = (*MemoryStore)(nil)
