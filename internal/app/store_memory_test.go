package app

import (
	"context"
	"errors"
	"sync"
)

// memoryStore is an in-process domain.ConfigStore for tests.
type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

var errStoreDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
