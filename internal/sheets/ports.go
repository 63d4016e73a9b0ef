package sheets

import (
	"context"
	"time"

	"budgetbuddy/internal/core"
)

// SummaryRow is one exported line: the state of a ledger after a change.
type SummaryRow struct {
	RecordedAt    time.Time
	UserID        string
	Operation     string
	Mode          core.Mode
	TotalIncome   core.Money
	TotalExpenses core.Money
	Balance       core.Money
	SavingsRate   string
	Alert         core.AlertLevel
	Overshoot     core.Money
}

// Ports for outbound adapters.
type (
	SummaryExporter interface {
		AppendSummary(ctx context.Context, row SummaryRow) (rowRef string, err error)
	}
)

// Header lists the column titles matching Values.
var Header = []any{"Timestamp", "User", "Operation", "Mode", "Income", "Expenses", "Balance", "Savings Rate %", "Alert", "Overshoot"}

// Values renders the row as spreadsheet cells. Amounts are written as
// decimal strings and parsed by the sheet.
func (r SummaryRow) Values() []any {
	return []any{
		r.RecordedAt.Format(core.TimestampLayout),
		r.UserID,
		r.Operation,
		string(r.Mode),
		r.TotalIncome.String(),
		r.TotalExpenses.String(),
		r.Balance.String(),
		r.SavingsRate,
		string(r.Alert),
		r.Overshoot.String(),
	}
}
