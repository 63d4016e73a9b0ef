package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/storage/storagetest"
)

func TestSQLiteRepositoryContract(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	storagetest.RunRepositoryContract(t, repo)
}

func TestSQLiteReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	first, err := storage.NewSQLiteRepository(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.SchemaVersion())
	require.NoError(t, first.Close())

	again, err := storage.NewSQLiteRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { again.Close() })
	assert.Equal(t, uint(1), again.SchemaVersion())
}

func TestNormalizeUserID(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"default_user", "default_user", false},
		{"  alice ", "alice", false},
		{"../etc/passwd", "_etc_passwd", false},
		{"a b/c", "a_b_c", false},
		{"", "", true},
		{"...", "", true},
	}
	for _, tc := range cases {
		got, err := storage.NormalizeUserID(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, storage.ErrInvalidUserID, "%q", tc.in)
			continue
		}
		require.NoError(t, err, "%q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestDecodeSnapshotFailsSoft(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{{`,
		"unknown mode":    `{"mode":"retired","income_sources":[],"expenses":[]}`,
		"negative amount": `{"mode":"student","income_sources":[{"source":"x","amount":-5,"date":"2024-01-01 00:00:00"}],"expenses":[]}`,
		"bad date":        `{"mode":null,"income_sources":[{"source":"x","amount":5,"date":"yesterday"}],"expenses":[]}`,
		"huge amount":     `{"mode":null,"income_sources":[],"expenses":[{"category":"Other","description":"x","amount":1e99999999,"date":"2024-01-01 00:00:00"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			l, err := storage.DecodeSnapshot([]byte(doc))
			assert.ErrorIs(t, err, storage.ErrCorruptSnapshot)
			assert.Equal(t, core.ModeUnset, l.Mode)
			assert.True(t, l.IsEmpty())
		})
	}
}

func TestDecodeSnapshotAcceptsOriginalDocument(t *testing.T) {
	doc := `{
  "mode": "professional",
  "income_sources": [{"source": "Salary", "amount": 4200.5, "date": "2024-02-01 09:00:00"}],
  "expenses": [{"category": "Utilities", "description": "Power bill", "amount": 80, "date": "2024-02-03 12:30:00"}]
}`
	l, err := storage.DecodeSnapshot([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, core.ModeProfessional, l.Mode)
	assert.Equal(t, "4200.50", l.Income[0].Amount.String())
	assert.Equal(t, "Power bill", l.Expenses[0].Description)
}
