// Package worker consumes ledger events: it reports budget alerts and
// exports the resulting summaries.
package worker

import (
	"context"
	"fmt"
	"time"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/sheets"
)

const (
	alertStateSize = 10_000
	alertStateTTL  = 24 * time.Hour
)

// AlertWorker handles LedgerEvents. Alerts are logged when a user's level
// changes; every event is exported when an exporter is configured.
type AlertWorker struct {
	exporter sheets.SummaryExporter
	logger   *log.Logger
	levels   *cache.LRU[core.AlertLevel]
}

func NewAlertWorker(exporter sheets.SummaryExporter, logger *log.Logger) *AlertWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &AlertWorker{
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
		levels:   cache.NewLRU[core.AlertLevel](alertStateSize, alertStateTTL),
	}
}

// AlertState exposes the per-user level cache for periodic cleanup.
func (w *AlertWorker) AlertState() cache.Cleaner {
	return w.levels
}

// HandleLedgerEvent processes one message. A returned error requeues it.
func (w *AlertWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEvent) error {
	level := msg.AlertLevel()
	previous, seen := w.levels.Swap(msg.UserID, level)
	if !seen || previous != level {
		w.reportAlert(ctx, msg, previous, seen)
	}

	if w.exporter == nil {
		return nil
	}
	ref, err := w.exporter.AppendSummary(ctx, sheets.SummaryRow{
		RecordedAt:    msg.Timestamp,
		UserID:        msg.UserID,
		Operation:     msg.Operation,
		Mode:          msg.Mode,
		TotalIncome:   msg.TotalIncome,
		TotalExpenses: msg.TotalExpenses,
		Balance:       msg.Balance,
		SavingsRate:   msg.SavingsRate,
		Alert:         level,
		Overshoot:     msg.Overshoot,
	})
	if err != nil {
		// Forget the level so the alert is reported again on redelivery.
		w.levels.Delete(msg.UserID)
		return fmt.Errorf("export summary: %w", err)
	}
	w.logger.DebugContext(ctx, "Summary exported",
		log.FieldUserID, msg.UserID,
		log.FieldOperation, msg.Operation,
		"row_ref", ref)
	return nil
}

func (w *AlertWorker) reportAlert(ctx context.Context, msg *amqp.LedgerEvent, previous core.AlertLevel, seen bool) {
	args := []any{
		log.FieldUserID, msg.UserID,
		log.FieldOperation, msg.Operation,
		log.FieldMode, string(msg.Mode),
		log.FieldAlert, string(msg.AlertLevel()),
		log.FieldTotalIncome, msg.TotalIncome.String(),
		log.FieldTotalExpense, msg.TotalExpenses.String(),
	}
	if seen {
		args = append(args, "previous_alert", string(previous))
	}

	switch msg.AlertLevel() {
	case core.AlertOverspending:
		args = append(args, log.FieldOvershoot, msg.Overshoot.String())
		w.logger.WarnContext(ctx, "Budget alert: expenses exceed income", args...)
	case core.AlertNearLimit:
		w.logger.WarnContext(ctx, "Budget warning: over 90% of income spent", args...)
	default:
		if seen {
			w.logger.InfoContext(ctx, "Budget back within limits", args...)
		}
	}
}
