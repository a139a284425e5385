// Package vkeys holds the gateway's virtual keys and answers the token
// lookups auth runs on every request.
package vkeys

import (
	"sort"
	"strconv"
	"sync"

	"github.com/aidarkhanov/nanoid"
	"github.com/oklog/ulid/v2"

	"ditto-go/internal/shared"
)

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

type Store struct {
	mu      sync.RWMutex
	byID    map[string]shared.VirtualKey
	byToken map[string]string
}

// NewStore seeds one enabled key per token with ids key-1..key-n, all
// carrying the same default limits.
func NewStore(seedTokens []string, defaults shared.Limits) *Store {
	s := &Store{
		byID:    make(map[string]shared.VirtualKey),
		byToken: make(map[string]string),
	}
	for i, token := range seedTokens {
		id := "key-" + strconv.Itoa(i+1)
		s.byID[id] = shared.VirtualKey{ID: id, Token: token, Enabled: true, Limits: defaults}
		s.byToken[token] = id
	}
	return s
}

// Enforced reports whether any keys exist. With none, auth is disabled
// and every caller is let through.
func (s *Store) Enforced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID) > 0
}

func (s *Store) Lookup(token string) (shared.VirtualKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byToken[token]
	if !ok {
		return shared.VirtualKey{}, false
	}
	key, ok := s.byID[id]
	return key, ok
}

func (s *Store) Get(id string) (shared.VirtualKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.byID[id]
	return key, ok
}

// Upsert stores the key by id and reports whether it was an insert. A
// changed token is reindexed so the old one stops resolving.
func (s *Store) Upsert(key shared.VirtualKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, exists := s.byID[key.ID]
	if exists {
		delete(s.byToken, old.Token)
	}
	s.byID[key.ID] = key
	s.byToken[key.Token] = key.ID
	return !exists
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	delete(s.byToken, key.Token)
	return true
}

// List returns all keys sorted by id.
func (s *Store) List() []shared.VirtualKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]shared.VirtualKey, 0, len(s.byID))
	for _, key := range s.byID {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID < keys[j].ID })
	return keys
}

// NewKeyID mints a ULID for admin-created keys.
func NewKeyID() string {
	return ulid.Make().String()
}

// NewKeyToken mints a vk- prefixed random token.
func NewKeyToken() (string, error) {
	suffix, err := nanoid.Generate(tokenAlphabet, shared.KeyTokenLength)
	if err != nil {
		return "", err
	}
	return shared.KeyTokenPrefix + suffix, nil
}
