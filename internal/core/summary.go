package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

type (
	// Totals are the headline figures of a ledger.
	Totals struct {
		TotalIncome   Money
		TotalExpenses Money
		Balance       Money
		// SavingsRate is balance as a percentage of income, zero without income.
		SavingsRate decimal.Decimal
	}

	// BreakdownRow is one registered category's share of total expenses.
	BreakdownRow struct {
		Category   string
		Amount     Money
		Percentage decimal.Decimal
	}

	Summary struct {
		Mode      Mode
		Totals    Totals
		Breakdown []BreakdownRow
		Alert     Alert
	}
)

// CalculateTotals sums income and expenses and derives balance and savings rate.
func CalculateTotals(l Ledger) Totals {
	var t Totals
	for _, e := range l.Income {
		t.TotalIncome = t.TotalIncome.Add(e.Amount)
	}
	for _, e := range l.Expenses {
		t.TotalExpenses = t.TotalExpenses.Add(e.Amount)
	}
	t.Balance = t.TotalIncome.Sub(t.TotalExpenses)
	t.SavingsRate = t.Balance.PercentOf(t.TotalIncome)
	return t
}

// CategoryBreakdown sums expenses per registered category of the ledger's
// mode. Expenses in unregistered categories are skipped here but still
// count towards the total used for percentages. Only nonzero rows are
// returned, largest first, ties in registry order.
func CategoryBreakdown(l Ledger) ([]BreakdownRow, error) {
	cats, err := CategoriesFor(l.Mode)
	if err != nil {
		return nil, err
	}
	sums := make(map[string]Money, len(cats))
	for _, c := range cats {
		sums[c] = Money{}
	}
	var total Money
	for _, e := range l.Expenses {
		total = total.Add(e.Amount)
		if cur, ok := sums[e.Category]; ok {
			sums[e.Category] = cur.Add(e.Amount)
		}
	}

	rows := make([]BreakdownRow, 0, len(cats))
	for _, c := range cats {
		amount := sums[c]
		if amount.IsZero() {
			continue
		}
		rows = append(rows, BreakdownRow{
			Category:   c,
			Amount:     amount,
			Percentage: amount.PercentOf(total),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.Cmp(rows[j].Amount) > 0
	})
	return rows, nil
}

// Aggregate computes the full summary of a ledger. Without a mode the
// totals and alert are still filled in, the breakdown is empty and
// ErrNoModeSelected is returned alongside.
func Aggregate(l Ledger) (Summary, error) {
	totals := CalculateTotals(l)
	s := Summary{
		Mode:      l.Mode,
		Totals:    totals,
		Breakdown: []BreakdownRow{},
		Alert:     EvaluateAlert(totals),
	}
	rows, err := CategoryBreakdown(l)
	if err != nil {
		return s, err
	}
	s.Breakdown = rows
	return s, nil
}
