package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/sheets"
	"budgetbuddy/internal/sheets/memory"
)

func event(t *testing.T, user, income, expenses string) *amqp.LedgerEvent {
	t.Helper()
	l := core.NewLedger()
	require.NoError(t, l.SetMode(core.ModeProfessional))
	if income != "" {
		e, err := core.NewIncomeEntry("Salary", core.MustMoney(income), time.Now())
		require.NoError(t, err)
		require.NoError(t, l.AppendIncome(e))
	}
	if expenses != "" {
		e, err := core.NewExpenseEntry("Other", "", core.MustMoney(expenses), time.Now())
		require.NoError(t, err)
		require.NoError(t, l.AppendExpense(e))
	}
	s, err := core.Aggregate(l)
	require.NoError(t, err)
	return amqp.NewLedgerEvent(user, "add_expense", s, time.Date(2024, 2, 1, 8, 0, 0, 0, time.Local))
}

func TestAlertWorkerExportsEveryEvent(t *testing.T) {
	store := memory.New()
	w := NewAlertWorker(store, nil)
	ctx := context.Background()

	require.NoError(t, w.HandleLedgerEvent(ctx, event(t, "alice", "1000", "100")))
	require.NoError(t, w.HandleLedgerEvent(ctx, event(t, "alice", "1000", "1200")))

	rows := store.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, core.AlertHealthy, rows[0].Alert)
	assert.Equal(t, core.AlertOverspending, rows[1].Alert)
	assert.Equal(t, "200.00", rows[1].Overshoot.String())
	assert.Equal(t, "-20.00", rows[1].SavingsRate)
}

func TestAlertWorkerLogsOnlyTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "text", Output: &buf})
	w := NewAlertWorker(nil, logger)
	ctx := context.Background()

	require.NoError(t, w.HandleLedgerEvent(ctx, event(t, "bob", "1000", "950")))
	require.NoError(t, w.HandleLedgerEvent(ctx, event(t, "bob", "1000", "960")))
	assert.Equal(t, 1, strings.Count(buf.String(), "Budget warning"))

	require.NoError(t, w.HandleLedgerEvent(ctx, event(t, "bob", "1000", "1100")))
	assert.Equal(t, 1, strings.Count(buf.String(), "Budget alert"))
	assert.Contains(t, buf.String(), "overshoot=100.00")

	require.NoError(t, w.HandleLedgerEvent(ctx, event(t, "bob", "5000", "1100")))
	assert.Contains(t, buf.String(), "Budget back within limits")
}

type failingExporter struct{}

func (failingExporter) AppendSummary(context.Context, sheets.SummaryRow) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestAlertWorkerExportFailureRequeues(t *testing.T) {
	var buf bytes.Buffer
	w := NewAlertWorker(failingExporter{}, log.New(log.Config{Output: &buf}))
	ctx := context.Background()
	msg := event(t, "carol", "100", "200")

	err := w.HandleLedgerEvent(ctx, msg)
	assert.Error(t, err)
	err = w.HandleLedgerEvent(ctx, msg)
	assert.Error(t, err)
	assert.Equal(t, 2, strings.Count(buf.String(), "Budget alert"), "alert reported again on redelivery")
}
