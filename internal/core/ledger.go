package core

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Ledger holds one user's mode and ordered income and expense entries. It is
// the unit of persistence and is not safe for concurrent use.
type Ledger struct {
	Mode     Mode           `json:"mode"`
	Income   []IncomeEntry  `json:"income_sources"`
	Expenses []ExpenseEntry `json:"expenses"`
}

// NewLedger returns an empty ledger with no mode selected.
func NewLedger() Ledger {
	return Ledger{Income: []IncomeEntry{}, Expenses: []ExpenseEntry{}}
}

// SetMode switches the active taxonomy. Existing entries are kept.
func (l *Ledger) SetMode(m Mode) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, string(m))
	}
	l.Mode = m
	return nil
}

func (l *Ledger) AppendIncome(e IncomeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	l.Income = append(l.Income, e)
	return nil
}

func (l *Ledger) AppendExpense(e ExpenseEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	l.Expenses = append(l.Expenses, e)
	return nil
}

// RemoveIncome deletes the entry at zero-based position i and returns it.
func (l *Ledger) RemoveIncome(i int) (IncomeEntry, error) {
	if i < 0 || i >= len(l.Income) {
		return IncomeEntry{}, fmt.Errorf("%w: income %d of %d", ErrIndexOutOfRange, i, len(l.Income))
	}
	removed := l.Income[i]
	l.Income = slices.Delete(l.Income, i, i+1)
	return removed, nil
}

// RemoveExpense deletes the entry at zero-based position i and returns it.
func (l *Ledger) RemoveExpense(i int) (ExpenseEntry, error) {
	if i < 0 || i >= len(l.Expenses) {
		return ExpenseEntry{}, fmt.Errorf("%w: expense %d of %d", ErrIndexOutOfRange, i, len(l.Expenses))
	}
	removed := l.Expenses[i]
	l.Expenses = slices.Delete(l.Expenses, i, i+1)
	return removed, nil
}

// Clear drops every entry but keeps the selected mode.
func (l *Ledger) Clear() {
	l.Income = []IncomeEntry{}
	l.Expenses = []ExpenseEntry{}
}

// Reset returns the ledger to its initial state, mode included.
func (l *Ledger) Reset() {
	*l = NewLedger()
}

// Clone returns a deep copy with non-nil entry slices.
func (l Ledger) Clone() Ledger {
	out := Ledger{
		Mode:     l.Mode,
		Income:   make([]IncomeEntry, len(l.Income)),
		Expenses: make([]ExpenseEntry, len(l.Expenses)),
	}
	copy(out.Income, l.Income)
	copy(out.Expenses, l.Expenses)
	return out
}

func (l Ledger) IsEmpty() bool {
	return len(l.Income) == 0 && len(l.Expenses) == 0
}

// Validate checks every stored entry. Used when restoring snapshots.
func (l Ledger) Validate() error {
	if l.Mode != ModeUnset && !l.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, string(l.Mode))
	}
	for i, e := range l.Income {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("income %d: %w", i, err)
		}
	}
	for i, e := range l.Expenses {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}
	return nil
}

// MarshalJSON writes the snapshot document. Empty sequences are written as
// [] rather than null.
func (l Ledger) MarshalJSON() ([]byte, error) {
	type document Ledger
	return json.Marshal(document(l.Clone()))
}
