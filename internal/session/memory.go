package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps the encoded snapshot in memory. Used by headless runs
// with persistence disabled and by tests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return Snapshot{}, ErrNotExists
	}
	var snap Snapshot
	err := json.Unmarshal(s.data, &snap)
	return snap, err
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
