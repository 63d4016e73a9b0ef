// Package storagetest holds behaviour checks shared by every Repository
// implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/storage"
)

// SampleLedger returns a student ledger with two incomes and two expenses.
func SampleLedger(t *testing.T) core.Ledger {
	t.Helper()
	at := time.Date(2024, 5, 10, 18, 4, 5, 0, time.Local)
	l := core.NewLedger()
	require.NoError(t, l.SetMode(core.ModeStudent))
	for _, in := range []struct{ source, amount string }{{"Allowance", "800"}, {"Tutoring", "500.25"}} {
		e, err := core.NewIncomeEntry(in.source, core.MustMoney(in.amount), at)
		require.NoError(t, err)
		require.NoError(t, l.AppendIncome(e))
	}
	for _, ex := range []struct{ category, description, amount string }{
		{"Books & Supplies", "Textbooks", "250"},
		{"Shopping", "", "19.99"},
	} {
		e, err := core.NewExpenseEntry(ex.category, ex.description, core.MustMoney(ex.amount), at)
		require.NoError(t, err)
		require.NoError(t, l.AppendExpense(e))
	}
	return l
}

// RunRepositoryContract exercises load and save semantics of repo.
func RunRepositoryContract(t *testing.T, repo storage.Repository) {
	ctx := context.Background()

	t.Run("missing user loads empty ledger", func(t *testing.T) {
		l, err := repo.Load(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, core.ModeUnset, l.Mode)
		assert.True(t, l.IsEmpty())
	})

	t.Run("round trip preserves order and values", func(t *testing.T) {
		want := SampleLedger(t)
		require.NoError(t, repo.Save(ctx, "alice", want))

		got, err := repo.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, core.ModeStudent, got.Mode)
		require.Len(t, got.Income, 2)
		require.Len(t, got.Expenses, 2)
		assert.Equal(t, "Tutoring", got.Income[1].Source)
		assert.True(t, got.Income[1].Amount.Equal(core.MustMoney("500.25")))
		assert.Equal(t, "Shopping", got.Expenses[1].Description)
		assert.True(t, got.Expenses[0].RecordedAt.Equal(want.Expenses[0].RecordedAt.Time))
	})

	t.Run("save replaces previous snapshot", func(t *testing.T) {
		l := SampleLedger(t)
		l.Clear()
		require.NoError(t, l.SetMode(core.ModeProfessional))
		require.NoError(t, repo.Save(ctx, "alice", l))

		got, err := repo.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, core.ModeProfessional, got.Mode)
		assert.True(t, got.IsEmpty())
	})

	t.Run("unset mode round trips", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "bob", core.NewLedger()))
		got, err := repo.Load(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, core.ModeUnset, got.Mode)
	})

	t.Run("users are isolated", func(t *testing.T) {
		got, err := repo.Load(ctx, "carol")
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
	})
}
