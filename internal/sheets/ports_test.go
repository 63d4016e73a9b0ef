package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"budgetbuddy/internal/core"
)

func TestSummaryRowValues(t *testing.T) {
	row := SummaryRow{
		RecordedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
		UserID:        "alice",
		Operation:     "add_expense",
		Mode:          core.ModeStudent,
		TotalIncome:   core.MustMoney("500"),
		TotalExpenses: core.MustMoney("550"),
		Balance:       core.MustMoney("-50"),
		SavingsRate:   "-10.00",
		Alert:         core.AlertOverspending,
		Overshoot:     core.MustMoney("50"),
	}
	got := row.Values()
	assert.Len(t, got, len(Header))
	assert.Equal(t, []any{
		"2024-01-02 03:04:05", "alice", "add_expense", "student",
		"500.00", "550.00", "-50.00", "-10.00", "overspending", "50.00",
	}, got)
}
