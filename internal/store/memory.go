package store

import (
	"context"
	"sync"

	"github.com/alexanderramin/intake/internal/domain"
)

// MemoryStore keeps encoded documents in a map. Useful for tests and for
// throwaway CLI sessions.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*domain.State, error) {
	m.mu.RLock()
	data, ok := m.docs[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(data)
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, state *domain.State) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[sessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.docs, sessionID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored documents.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MemoryStore) Close() error { return nil }
