package storage

import (
	"context"
	"sync"

	"github.com/mdhdoan/VIVI/pkg"
)

// InMemoryStore keeps the memory log for the lifetime of the process only.
// It backs throwaway sessions where nothing should reach disk.
type InMemoryStore struct {
	mu    sync.RWMutex
	turns []pkg.MemoryTurn
	saved bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (m *InMemoryStore) Load(_ context.Context) ([]pkg.MemoryTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.saved {
		return nil, ErrMemoryNotFound
	}
	return append([]pkg.MemoryTurn{}, m.turns...), nil
}

func (m *InMemoryStore) Save(_ context.Context, turns []pkg.MemoryTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append([]pkg.MemoryTurn{}, turns...)
	m.saved = true
	return nil
}

func (m *InMemoryStore) Close() error {
	return nil
}
