// Package securestore holds sensitive strings (access tokens, one-time
// secrets) in process memory only. Nothing is ever written to disk, so a
// restart always starts from an empty store; durable credentials live in
// the credentials package instead.
package securestore

import "sync"

// Store is a concurrency-safe in-memory key/value holder. The zero value is
// not usable; construct with New. Writes follow last-write-wins semantics.
type Store struct {
	mu sync.RWMutex
	m  map[string]string
}

func New() *Store {
	return &Store{m: make(map[string]string)}
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]string)
}
