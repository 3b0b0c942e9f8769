package snapshot

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, ideaID, name string, content []byte) error {
	key, err := objectKey(ideaID, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, ideaID, name string) ([]byte, error) {
	key, err := objectKey(ideaID, name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) GetURL(_ context.Context, _, _ string) (string, error) {
	// No URLs for in-memory content.
	return "", nil
}

func objectKey(ideaID, name string) (string, error) {
	ideaID = strings.TrimSpace(ideaID)
	name = strings.TrimSpace(name)
	if ideaID == "" {
		return "", fmt.Errorf("idea id is required")
	}
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	return ideaID + "/" + strings.TrimLeft(name, "/"), nil
}
