package inmemkv

import (
	"context"
	"sync"

	"github.com/trezcool/skillxp/core"
)

// Store keeps values in process memory. Values are copied in and out.
type Store struct {
	mu     sync.RWMutex
	table  map[string][]byte
	closed bool
}

var _ core.KVStore = (*Store)(nil)

func New() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, core.ErrKVClosed
	}
	val, ok := s.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return copyBytes(val), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrKVClosed
	}
	s.table[key] = copyBytes(value)
	return nil
}

func (s *Store) Create(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrKVClosed
	}
	if _, ok := s.table[key]; ok {
		return core.ErrKeyExists
	}
	s.table[key] = copyBytes(value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrKVClosed
	}
	delete(s.table, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}

// Clear drops every key, like clearing the browser's storage.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = make(map[string][]byte)
}

// Close drops every key. The Store fails with core.ErrKVClosed afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.table = make(map[string][]byte)
	return nil
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
