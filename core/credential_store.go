package core

import (
	"context"
	"strings"
	"sync"
)

// MemoryCredentialStore keeps both token slots in process memory. An empty
// value reads as absent, as in the SQL store.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	slots map[TokenSlot]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{slots: map[TokenSlot]string{}}
}

func (s *MemoryCredentialStore) Get(_ context.Context, slot TokenSlot) (string, bool, error) {
	if s == nil {
		return "", false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[slot]
	if !ok || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

func (s *MemoryCredentialStore) Set(_ context.Context, slot TokenSlot, value string) error {
	if s == nil {
		return internalError(nil, "core: memory credential store is nil")
	}
	if strings.TrimSpace(string(slot)) == "" {
		return badInputError("core: token slot is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		s.slots = map[TokenSlot]string{}
	}
	s.slots[slot] = value
	return nil
}

func (s *MemoryCredentialStore) Clear(context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = map[TokenSlot]string{}
	return nil
}

// loadPair reads both slots. Missing slots come back empty.
func loadPair(ctx context.Context, store CredentialStore) (CredentialPair, error) {
	access, _, err := store.Get(ctx, SlotAccessToken)
	if err != nil {
		return CredentialPair{}, err
	}
	refresh, _, err := store.Get(ctx, SlotRefreshToken)
	if err != nil {
		return CredentialPair{}, err
	}
	return CredentialPair{Access: access, Refresh: refresh}, nil
}
