// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package preferences

import "sync"

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Key]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]string, len(cookieNames))}
}

func (s *MemoryStore) Get(key Key) string {
	return get(s, key)
}

func (s *MemoryStore) Lookup(key Key) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]

	return v, ok
}

func (s *MemoryStore) Set(key Key, value string) {
	if !Valid(key, value) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

// Snapshot copies every stored value from src into a new MemoryStore.
func Snapshot(src Store) *MemoryStore {
	dst := NewMemoryStore()

	for key := range cookieNames {
		if v, ok := src.Lookup(key); ok {
			dst.values[key] = v
		}
	}

	return dst
}
