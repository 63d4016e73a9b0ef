package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.RunRepositoryContract(t, New())
}

func TestStoreFailSave(t *testing.T) {
	s := New()
	boom := errors.New("disk full")
	s.FailSave = boom
	err := s.Save(context.Background(), "u", core.NewLedger())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Users())
}

func TestStoreCorruptSnapshot(t *testing.T) {
	s := New()
	s.Put("u", []byte(`{"mode":`))
	l, err := s.Load(context.Background(), "u")
	assert.ErrorIs(t, err, storage.ErrCorruptSnapshot)
	require.True(t, l.IsEmpty())
}
