package report

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"budgetbuddy/internal/core"
)

// Number is a decimal already rounded for display. It is written as a bare
// number in both JSON and YAML.
type Number string

func amount(m core.Money) Number       { return Number(m.Amount.StringFixed(2)) }
func percent(d decimal.Decimal) Number { return Number(d.StringFixed(2)) }

func (n Number) String() string { return string(n) }

func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

func (n Number) MarshalYAML() (any, error) {
	v := string(n)
	if v == "" {
		v = "0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v}, nil
}

type (
	TotalsView struct {
		TotalIncome   Number `json:"total_income" yaml:"total_income"`
		TotalExpenses Number `json:"total_expenses" yaml:"total_expenses"`
		Balance       Number `json:"balance" yaml:"balance"`
		SavingsRate   Number `json:"savings_rate" yaml:"savings_rate"`
	}

	BreakdownView struct {
		Category   string `json:"category" yaml:"category"`
		Amount     Number `json:"amount" yaml:"amount"`
		Percentage Number `json:"percentage" yaml:"percentage"`
	}

	AlertView struct {
		Level     core.AlertLevel `json:"level" yaml:"level"`
		Overshoot Number          `json:"overshoot" yaml:"overshoot"`
	}

	IncomeView struct {
		Source string `json:"source" yaml:"source"`
		Amount Number `json:"amount" yaml:"amount"`
		Date   string `json:"date" yaml:"date"`
	}

	ExpenseView struct {
		Category    string `json:"category" yaml:"category"`
		Description string `json:"description" yaml:"description"`
		Amount      Number `json:"amount" yaml:"amount"`
		Date        string `json:"date" yaml:"date"`
	}

	// SummaryView is the document served by the API and written by exports.
	SummaryView struct {
		Mode          core.Mode       `json:"mode" yaml:"mode"`
		Totals        TotalsView      `json:"totals" yaml:"totals"`
		Breakdown     []BreakdownView `json:"breakdown" yaml:"breakdown"`
		Alert         AlertView       `json:"alert" yaml:"alert"`
		IncomeSources []IncomeView    `json:"income_sources" yaml:"income_sources"`
		Expenses      []ExpenseView   `json:"expenses" yaml:"expenses"`
	}
)

func NewIncomeView(e core.IncomeEntry) IncomeView {
	return IncomeView{Source: e.Source, Amount: amount(e.Amount), Date: e.RecordedAt.String()}
}

func NewExpenseView(e core.ExpenseEntry) ExpenseView {
	return ExpenseView{
		Category:    e.Category,
		Description: e.Description,
		Amount:      amount(e.Amount),
		Date:        e.RecordedAt.String(),
	}
}

func IncomeViews(entries []core.IncomeEntry) []IncomeView {
	out := make([]IncomeView, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewIncomeView(e))
	}
	return out
}

func ExpenseViews(entries []core.ExpenseEntry) []ExpenseView {
	out := make([]ExpenseView, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewExpenseView(e))
	}
	return out
}

// NewSummaryView flattens a summary and the ledger it was computed from.
func NewSummaryView(s core.Summary, l core.Ledger) SummaryView {
	v := SummaryView{
		Mode: s.Mode,
		Totals: TotalsView{
			TotalIncome:   amount(s.Totals.TotalIncome),
			TotalExpenses: amount(s.Totals.TotalExpenses),
			Balance:       amount(s.Totals.Balance),
			SavingsRate:   percent(s.Totals.SavingsRate),
		},
		Breakdown:     make([]BreakdownView, 0, len(s.Breakdown)),
		Alert:         AlertView{Level: s.Alert.Level, Overshoot: amount(s.Alert.Overshoot)},
		IncomeSources: IncomeViews(l.Income),
		Expenses:      ExpenseViews(l.Expenses),
	}
	for _, row := range s.Breakdown {
		v.Breakdown = append(v.Breakdown, BreakdownView{
			Category:   row.Category,
			Amount:     amount(row.Amount),
			Percentage: percent(row.Percentage),
		})
	}
	return v
}
