package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"budgetbuddy/internal/core"
)

// LedgerEvent is published after every successful ledger mutation. It
// carries the resulting headline figures so that consumers never have to
// read the ledger back.
type LedgerEvent struct {
	UserID        string     `json:"user_id"`
	Operation     string     `json:"operation"`
	Mode          core.Mode  `json:"mode"`
	TotalIncome   core.Money `json:"total_income"`
	TotalExpenses core.Money `json:"total_expenses"`
	Balance       core.Money `json:"balance"`
	SavingsRate   string     `json:"savings_rate"`
	Alert         string     `json:"alert"`
	Overshoot     core.Money `json:"overshoot"`
	Timestamp     time.Time  `json:"timestamp"`
}

var errIncompleteEvent = errors.New("ledger event requires user_id and operation")

// NewLedgerEvent builds an event from the summary computed after operation.
func NewLedgerEvent(userID, operation string, s core.Summary, at time.Time) *LedgerEvent {
	return &LedgerEvent{
		UserID:        userID,
		Operation:     operation,
		Mode:          s.Mode,
		TotalIncome:   s.Totals.TotalIncome,
		TotalExpenses: s.Totals.TotalExpenses,
		Balance:       s.Totals.Balance,
		SavingsRate:   s.Totals.SavingsRate.StringFixed(2),
		Alert:         string(s.Alert.Level),
		Overshoot:     s.Alert.Overshoot,
		Timestamp:     at,
	}
}

// AlertLevel returns the alert carried by the event.
func (m *LedgerEvent) AlertLevel() core.AlertLevel {
	return core.AlertLevel(m.Alert)
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes and checks a message body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" || msg.Operation == "" {
		return nil, errIncompleteEvent
	}
	return &msg, nil
}
