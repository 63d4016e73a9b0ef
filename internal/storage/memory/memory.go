// Package memory is an in-process ledger store used by tests and demos.
// Ledgers are kept as encoded snapshots so callers never share slices.
package memory

import (
	"context"
	"sync"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/storage"
)

type Store struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	// FailSave makes Save return the given error. Tests use it to simulate
	// persistence failures.
	FailSave error
}

var _ storage.Repository = (*Store)(nil)

func New() *Store {
	return &Store{snapshots: map[string][]byte{}}
}

func (s *Store) Load(_ context.Context, userID string) (core.Ledger, error) {
	id, err := storage.NormalizeUserID(userID)
	if err != nil {
		return core.NewLedger(), err
	}
	s.mu.Lock()
	data, ok := s.snapshots[id]
	s.mu.Unlock()
	if !ok {
		return core.NewLedger(), nil
	}
	return storage.DecodeSnapshot(data)
}

func (s *Store) Save(_ context.Context, userID string, l core.Ledger) error {
	id, err := storage.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return s.FailSave
	}
	data, err := storage.EncodeSnapshot(l)
	if err != nil {
		return err
	}
	s.snapshots[id] = data
	return nil
}

// Put stores raw snapshot bytes, bypassing encoding.
func (s *Store) Put(userID string, data []byte) {
	id, _ := storage.NormalizeUserID(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[id] = append([]byte(nil), data...)
}

// Users lists stored user ids.
func (s *Store) Users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		out = append(out, id)
	}
	return out
}
