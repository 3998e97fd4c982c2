// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package asn

import "sync"

// Store caches attribution labels keyed by IP address.
type Store interface {
	// Get returns the cached label for the address, if any.
	Get(addr string) (string, bool)
	// Set stores the label for the address, overwriting a previous entry.
	Set(addr, label string)
}

var _ Store = (*InMemory)(nil)

// InMemory is a concurrency-safe in-process Store.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewInMemory creates an empty in-process store.
func NewInMemory() *InMemory {
	return &InMemory{entries: map[string]string{}}
}

func (s *InMemory) Get(addr string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	label, ok := s.entries[addr]
	return label, ok
}

func (s *InMemory) Set(addr, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[addr] = label
}
