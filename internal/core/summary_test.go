package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerWith(t *testing.T, mode Mode, incomes []string, expenses [][2]string) Ledger {
	t.Helper()
	l := NewLedger()
	if mode != ModeUnset {
		require.NoError(t, l.SetMode(mode))
	}
	for i, amount := range incomes {
		require.NoError(t, l.AppendIncome(income(t, string(rune('A'+i)), amount)))
	}
	for _, e := range expenses {
		require.NoError(t, l.AppendExpense(expense(t, e[0], e[1])))
	}
	return l
}

func TestAggregateStudentMonth(t *testing.T) {
	l := ledgerWith(t, ModeStudent,
		[]string{"800", "500"},
		[][2]string{
			{"Food & Dining", "200"},
			{"Books & Supplies", "250"},
			{"Transportation", "60"},
		})

	s, err := Aggregate(l)
	require.NoError(t, err)
	assert.Equal(t, "1300.00", s.Totals.TotalIncome.String())
	assert.Equal(t, "510.00", s.Totals.TotalExpenses.String())
	assert.Equal(t, "790.00", s.Totals.Balance.String())
	assert.Equal(t, "60.77", s.Totals.SavingsRate.StringFixed(2))

	require.Len(t, s.Breakdown, 3)
	assert.Equal(t, "Books & Supplies", s.Breakdown[0].Category)
	assert.Equal(t, "49.02", s.Breakdown[0].Percentage.StringFixed(2))
	assert.Equal(t, "Food & Dining", s.Breakdown[1].Category)
	assert.Equal(t, "Transportation", s.Breakdown[2].Category)
	assert.Equal(t, AlertHealthy, s.Alert.Level)
}

func TestAggregateExcludesUnregisteredCategoryFromRows(t *testing.T) {
	l := ledgerWith(t, ModeStudent,
		[]string{"500"},
		[][2]string{
			{"Shopping", "250"},
			{"Entertainment", "300"},
		})

	s, err := Aggregate(l)
	require.NoError(t, err)
	assert.Equal(t, "550.00", s.Totals.TotalExpenses.String())
	require.Len(t, s.Breakdown, 1)
	assert.Equal(t, "Entertainment", s.Breakdown[0].Category)
	assert.Equal(t, "54.5", s.Breakdown[0].Percentage.StringFixed(1))
	assert.Equal(t, AlertOverspending, s.Alert.Level)
	assert.Equal(t, "50.00", s.Alert.Overshoot.String())
}

func TestAggregateWithoutIncome(t *testing.T) {
	l := ledgerWith(t, ModeProfessional, nil, [][2]string{{"Other", "100"}})

	s, err := Aggregate(l)
	require.NoError(t, err)
	assert.True(t, s.Totals.SavingsRate.IsZero())
	assert.Equal(t, "-100.00", s.Totals.Balance.String())
	assert.Equal(t, AlertOverspending, s.Alert.Level)
	assert.Equal(t, "100.00", s.Alert.Overshoot.String())
	require.Len(t, s.Breakdown, 1)
	assert.Equal(t, "100.00", s.Breakdown[0].Percentage.StringFixed(2))
}

func TestAggregateWithoutMode(t *testing.T) {
	l := ledgerWith(t, ModeUnset, []string{"100"}, [][2]string{{"Other", "40"}})

	s, err := Aggregate(l)
	assert.ErrorIs(t, err, ErrNoModeSelected)
	assert.Equal(t, "100.00", s.Totals.TotalIncome.String())
	assert.Equal(t, "60.00", s.Totals.Balance.String())
	assert.Empty(t, s.Breakdown)
}

func TestAggregateEmptyLedger(t *testing.T) {
	s, err := Aggregate(ledgerWith(t, ModeStudent, nil, nil))
	require.NoError(t, err)
	assert.True(t, s.Totals.TotalIncome.IsZero())
	assert.True(t, s.Totals.Balance.IsZero())
	assert.True(t, s.Totals.SavingsRate.IsZero())
	assert.Empty(t, s.Breakdown)
	assert.Equal(t, AlertHealthy, s.Alert.Level)
}

func TestBreakdownTiesKeepRegistryOrder(t *testing.T) {
	l := ledgerWith(t, ModeProfessional, []string{"1000"}, [][2]string{
		{"Other", "50"},
		{"Shopping", "50"},
		{"Utilities", "50"},
		{"Utilities", "25"},
		{"Groceries", "75"},
	})
	rows, err := CategoryBreakdown(l)
	require.NoError(t, err)

	var got []string
	for _, r := range rows {
		got = append(got, r.Category)
	}
	assert.Equal(t, []string{"Utilities", "Groceries", "Shopping", "Other"}, got)
}

func TestBreakdownPercentagesSumToHundredWhenAllRegistered(t *testing.T) {
	l := ledgerWith(t, ModeStudent, nil, [][2]string{
		{"Other", "1"},
		{"Entertainment", "1"},
		{"Food & Dining", "1"},
	})
	rows, err := CategoryBreakdown(l)
	require.NoError(t, err)

	var sum Money
	for _, r := range rows {
		sum = sum.Add(Money{Amount: r.Percentage})
	}
	assert.Equal(t, "100.00", sum.String())
}

func TestSavingsRateMayBeNegative(t *testing.T) {
	totals := CalculateTotals(ledgerWith(t, ModeStudent, []string{"200"}, [][2]string{{"Other", "300"}}))
	assert.Equal(t, "-50.00", totals.SavingsRate.StringFixed(2))
}

func TestEvaluateAlert(t *testing.T) {
	cases := []struct {
		name     string
		income   string
		expenses string
		want     AlertLevel
	}{
		{"no activity", "0", "0", AlertHealthy},
		{"well within", "1000", "500", AlertHealthy},
		{"exactly ninety percent", "1000", "900", AlertHealthy},
		{"just over ninety percent", "1000", "900.01", AlertNearLimit},
		{"exactly income", "1000", "1000", AlertNearLimit},
		{"over income", "1000", "1000.01", AlertOverspending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := EvaluateAlert(Totals{
				TotalIncome:   MustMoney(tc.income),
				TotalExpenses: MustMoney(tc.expenses),
			})
			assert.Equal(t, tc.want, a.Level)
			if tc.want != AlertOverspending {
				assert.True(t, a.Overshoot.IsZero())
			}
		})
	}
}
