// Package session keeps the bearer credential that proves an authenticated
// session and derives the session state from it.
package session

import (
	"strings"
	"sync"
)

// TokenStore holds at most one bearer token. A token is "absent" when Get
// reports false. Stores do not track expiry: validity is decided by the
// backend's response codes.
type TokenStore interface {
	Get() (string, bool)
	Set(token string)
	Clear()
}

// MemoryStore keeps the token in process memory. Concurrent writers are
// last-writer-wins.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

var _ TokenStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(token string) {
	s.mu.Lock()
	s.token = strings.TrimSpace(token)
	s.mu.Unlock()
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// NoopStore is used where no persistent storage exists (server-side
// rendering, one-shot jobs). Every read reports absent.
type NoopStore struct{}

var _ TokenStore = NoopStore{}

func (NoopStore) Get() (string, bool) { return "", false }
func (NoopStore) Set(string)          {}
func (NoopStore) Clear()              {}
