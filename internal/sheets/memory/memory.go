// Package memory holds an in-memory ledger mirror for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tongxing977-max/project50k-backend/internal/core"
	ports "github.com/tongxing977-max/project50k-backend/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	entries map[int64]core.Transaction
}

var (
	_ ports.LedgerWriter  = (*Store)(nil)
	_ ports.LedgerDeleter = (*Store)(nil)
)

func New() *Store {
	return &Store{entries: make(map[int64]core.Transaction)}
}

func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[t.ID] = t
	return fmt.Sprintf("mem:%d", t.ID), nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// Get returns a mirrored entry, for test assertions.
func (s *Store) Get(id int64) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.entries[id]
	return t, ok
}

// Len returns the number of mirrored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
