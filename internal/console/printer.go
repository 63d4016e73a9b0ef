package console

import (
	"fmt"
	"io"
	"strings"

	"budgetbuddy/internal/core"
)

const lineWidth = 50

// Printer renders ledger data for a terminal.
type Printer struct {
	out      io.Writer
	currency string
	styles   Styles
}

func NewPrinter(out io.Writer, currency string) *Printer {
	return &Printer{out: out, currency: currency, styles: NewStyles(out)}
}

func (p *Printer) money(m core.Money) string {
	return p.currency + m.String()
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Success(msg string) {
	p.line("%s", p.styles.Success.Render(SuccessIcon+" "+msg))
}

func (p *Printer) Warn(msg string) {
	p.line("%s", p.styles.Warning.Render(WarningIcon+" "+msg))
}

func (p *Printer) Error(msg string) {
	p.line("%s", p.styles.Error.Render(ErrorIcon+" "+msg))
}

// Banner prints title between two rules of '='.
func (p *Printer) Banner(title string) {
	rule := strings.Repeat("=", lineWidth)
	p.line("\n%s", rule)
	p.line("%s", p.styles.Title.Render(title))
	p.line("%s", rule)
}

// Section prints title centered in a rule of '-'.
func (p *Printer) Section(title string) {
	p.line("\n%s", p.styles.Bold.Render(center(title, lineWidth, '-')))
}

func center(s string, width int, fill rune) string {
	pad := width - len([]rune(s))
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), pad-left)
}

// Alert prints the budget alert for a, if any.
func (p *Printer) Alert(a core.Alert) {
	switch a.Level {
	case core.AlertOverspending:
		bang := strings.Repeat("!", lineWidth)
		p.line("\n%s", p.styles.Error.Render(bang))
		p.line("%s", p.styles.Error.Render(WarningIcon+" BUDGET ALERT: Your expenses exceed your income!"))
		p.line("%s", p.styles.Error.Render("Overspending: "+p.money(a.Overshoot)))
		p.line("%s", p.styles.Error.Render(bang))
	case core.AlertNearLimit:
		p.line("")
		p.Warn("Warning: You've used 90% or more of your income!")
	}
}

// Summary prints income, the category breakdown and the balance.
func (p *Printer) Summary(s core.Summary, l core.Ledger) {
	p.Banner("FINANCIAL SUMMARY")
	if s.Mode.IsSet() {
		p.line("Mode: %s", s.Mode.Title())
	}

	p.Section("INCOME SOURCES")
	if len(l.Income) == 0 {
		p.line("  No income recorded yet.")
	} else {
		for _, e := range l.Income {
			p.line("  %-30s %s%10s", e.Source, p.currency, e.Amount)
		}
		p.line("  %-30s %s%10s", "Total Income:", p.currency, s.Totals.TotalIncome)
	}

	p.Section("EXPENSES")
	if len(l.Expenses) == 0 {
		p.line("  No expenses recorded yet.")
	} else {
		p.line("\nCategory-wise Breakdown:")
		for _, row := range s.Breakdown {
			p.line("  %-30s %s%10s (%5s%%)", row.Category, p.currency, row.Amount, row.Percentage.StringFixed(1))
		}
		p.line("\n  %-30s %s%10s", "Total Expenses:", p.currency, s.Totals.TotalExpenses)
	}

	p.Section("BALANCE & SAVINGS")
	balance := s.Totals.Balance
	p.line("  %-30s %s%10s", "Current Balance:", p.currency, balance)
	switch {
	case balance.IsPositive():
		p.line("  %-30s %10s%%", "Savings Rate:", s.Totals.SavingsRate.StringFixed(1))
		p.line("")
		p.Success("Great job! You're saving money!")
	case balance.IsNegative():
		p.line("")
		p.Warn(fmt.Sprintf("You're overspending by %s!", p.currency+core.Money{Amount: balance.Amount.Abs()}.String()))
	default:
		p.line("")
		p.Warn("You've spent all your income!")
	}
	p.line("%s", strings.Repeat("=", lineWidth))
}

// History prints every entry, numbered from 1.
func (p *Printer) History(l core.Ledger) {
	p.Banner("TRANSACTION HISTORY")
	if len(l.Income) > 0 {
		p.Section("INCOME TRANSACTIONS")
		p.Income(l.Income)
	}
	if len(l.Expenses) > 0 {
		p.Section("EXPENSE TRANSACTIONS")
		p.Expenses(l.Expenses)
	}
	if l.IsEmpty() {
		p.line("\nNo transactions recorded yet.")
	}
	p.line("%s", strings.Repeat("=", lineWidth))
}

func (p *Printer) Income(entries []core.IncomeEntry) {
	for i, e := range entries {
		p.line("\n%d. %s", i+1, e.Source)
		p.line("   Amount: %s", p.money(e.Amount))
		p.line("   Date: %s", e.RecordedAt)
	}
}

func (p *Printer) Expenses(entries []core.ExpenseEntry) {
	for i, e := range entries {
		p.line("\n%d. %s", i+1, e.Description)
		p.line("   Category: %s", e.Category)
		p.line("   Amount: %s", p.money(e.Amount))
		p.line("   Date: %s", e.RecordedAt)
	}
}

// Categories prints a numbered category list.
func (p *Printer) Categories(cats []string) {
	for i, c := range cats {
		p.line("%d. %s", i+1, c)
	}
}
