// Package services orchestrates ledger operations across storage and the
// event bus.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/storage"
)

// ErrPersistence wraps storage failures that prevented an operation from
// taking effect.
var ErrPersistence = errors.New("persistence failure")

// EventPublisher receives a LedgerEvent after each successful mutation.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEvent) error
}

type (
	// IncomeInput is raw add-income input. Amount is the text typed or sent
	// by the user and is parsed with core.ParseAmount.
	IncomeInput struct {
		Source string
		Amount string
	}

	ExpenseInput struct {
		Category    string
		Description string
		Amount      string
	}
)

// LedgerService serializes load, mutate and save per user. A rejected
// operation never changes the stored ledger.
type LedgerService struct {
	repo   storage.Repository
	events EventPublisher
	now    func() time.Time
	logger *log.Logger
	sl     *log.StructuredLogger

	locks sync.Map // user id -> *sync.Mutex
}

type Option func(*LedgerService)

// WithEvents publishes ledger events through p. Nil disables publishing.
func WithEvents(p EventPublisher) Option {
	return func(s *LedgerService) { s.events = p }
}

// WithClock overrides the source of entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l.WithComponent(log.ComponentLedger) }
}

func NewLedgerService(repo storage.Repository, opts ...Option) *LedgerService {
	s := &LedgerService{
		repo:   repo,
		now:    time.Now,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sl = log.NewStructuredLogger(s.logger)
	return s
}

// lock normalizes userID to its storage key and holds that key's mutex.
// Spellings that share a stored ledger share the lock.
func (s *LedgerService) lock(userID string) (string, func(), error) {
	key, err := storage.NormalizeUserID(userID)
	if err != nil {
		return "", nil, err
	}
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return key, mu.Unlock, nil
}

// load restores the user's ledger. A corrupt snapshot is logged and
// replaced by an empty ledger.
func (s *LedgerService) load(ctx context.Context, userID string) (core.Ledger, error) {
	l, err := s.repo.Load(ctx, userID)
	if err == nil {
		return l, nil
	}
	if errors.Is(err, storage.ErrCorruptSnapshot) {
		s.logger.WarnContext(ctx, "Ignoring unreadable ledger snapshot",
			log.FieldUserID, userID,
			log.FieldError, err)
		return core.NewLedger(), nil
	}
	return core.Ledger{}, fmt.Errorf("%w: load ledger: %w", ErrPersistence, err)
}

// mutate runs fn on a copy of the user's ledger and persists the result.
// The stored ledger is left untouched when fn or the save fails.
func (s *LedgerService) mutate(ctx context.Context, userID, op string, fn func(l *core.Ledger) error) (core.Ledger, error) {
	userID, unlock, err := s.lock(userID)
	if err != nil {
		return core.Ledger{}, err
	}
	defer unlock()

	current, err := s.load(ctx, userID)
	if err != nil {
		return core.Ledger{}, err
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return current, err
	}
	if err := s.repo.Save(ctx, userID, next); err != nil {
		s.sl.LogError(ctx, "Failed to save ledger", err, log.ComponentStorage, op, log.NewFields().WithUser(userID))
		return current, fmt.Errorf("%w: save ledger: %w", ErrPersistence, err)
	}

	summary, _ := core.Aggregate(next)
	s.sl.LogLedgerChange(ctx, userID, op,
		summary.Totals.TotalIncome.String(),
		summary.Totals.TotalExpenses.String(),
		summary.Totals.Balance.String())
	s.publish(ctx, userID, op, summary)
	return next, nil
}

func (s *LedgerService) publish(ctx context.Context, userID, op string, summary core.Summary) {
	if s.events == nil {
		return
	}
	msg := amqp.NewLedgerEvent(userID, op, summary, s.now())
	if err := s.events.PublishLedgerEvent(ctx, msg); err != nil {
		// The ledger is already saved; a lost event only delays alerts.
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldUserID, userID,
			log.FieldOperation, op,
			log.FieldError, err)
	}
}

// Ledger returns the user's current ledger.
func (s *LedgerService) Ledger(ctx context.Context, userID string) (core.Ledger, error) {
	userID, unlock, err := s.lock(userID)
	if err != nil {
		return core.Ledger{}, err
	}
	defer unlock()
	return s.load(ctx, userID)
}

// SetMode parses mode and makes it the user's active taxonomy.
func (s *LedgerService) SetMode(ctx context.Context, userID, mode string) (core.Mode, error) {
	m, err := core.ParseMode(mode)
	if err != nil {
		return core.ModeUnset, err
	}
	_, err = s.mutate(ctx, userID, log.OpSetMode, func(l *core.Ledger) error {
		return l.SetMode(m)
	})
	if err != nil {
		return core.ModeUnset, err
	}
	return m, nil
}

// Categories lists the categories of the user's active mode.
func (s *LedgerService) Categories(ctx context.Context, userID string) ([]string, error) {
	l, err := s.Ledger(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.CategoriesFor(l.Mode)
}

func (s *LedgerService) AddIncome(ctx context.Context, userID string, in IncomeInput) (core.IncomeEntry, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.IncomeEntry{}, err
	}
	entry, err := core.NewIncomeEntry(in.Source, amount, s.now())
	if err != nil {
		return core.IncomeEntry{}, err
	}
	_, err = s.mutate(ctx, userID, log.OpAddIncome, func(l *core.Ledger) error {
		return l.AppendIncome(entry)
	})
	if err != nil {
		return core.IncomeEntry{}, err
	}
	return entry, nil
}

func (s *LedgerService) AddExpense(ctx context.Context, userID string, in ExpenseInput) (core.ExpenseEntry, error) {
	r, err := s.RecordExpense(ctx, userID, in)
	return r.Entry, err
}

// ExpenseReceipt describes an appended expense and the mode it was
// appended under.
type ExpenseReceipt struct {
	Entry core.ExpenseEntry
	Mode  core.Mode
	// Counted is false when the category is outside the mode's registry,
	// so the entry is left out of the breakdown.
	Counted bool
}

// RecordExpense is AddExpense that also reports, under the same lock,
// whether the entry counts towards the breakdown.
func (s *LedgerService) RecordExpense(ctx context.Context, userID string, in ExpenseInput) (ExpenseReceipt, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return ExpenseReceipt{}, err
	}
	entry, err := core.NewExpenseEntry(in.Category, in.Description, amount, s.now())
	if err != nil {
		return ExpenseReceipt{}, err
	}
	r := ExpenseReceipt{Entry: entry}
	_, err = s.mutate(ctx, userID, log.OpAddExpense, func(l *core.Ledger) error {
		r.Mode = l.Mode
		r.Counted = l.Mode.HasCategory(entry.Category)
		return l.AppendExpense(entry)
	})
	if err != nil {
		return ExpenseReceipt{}, err
	}
	return r, nil
}

// RemoveIncome deletes the income entry at zero-based position i.
func (s *LedgerService) RemoveIncome(ctx context.Context, userID string, i int) (core.IncomeEntry, error) {
	var removed core.IncomeEntry
	_, err := s.mutate(ctx, userID, log.OpRemoveIncome, func(l *core.Ledger) error {
		var err error
		removed, err = l.RemoveIncome(i)
		return err
	})
	return removed, err
}

// RemoveExpense deletes the expense entry at zero-based position i.
func (s *LedgerService) RemoveExpense(ctx context.Context, userID string, i int) (core.ExpenseEntry, error) {
	var removed core.ExpenseEntry
	_, err := s.mutate(ctx, userID, log.OpRemoveExpense, func(l *core.Ledger) error {
		var err error
		removed, err = l.RemoveExpense(i)
		return err
	})
	return removed, err
}

// Clear drops all entries but keeps the mode.
func (s *LedgerService) Clear(ctx context.Context, userID string) error {
	_, err := s.mutate(ctx, userID, log.OpClear, func(l *core.Ledger) error {
		l.Clear()
		return nil
	})
	return err
}

// Summary aggregates the user's ledger. It returns core.ErrNoModeSelected
// together with totals when no mode is selected.
func (s *LedgerService) Summary(ctx context.Context, userID string) (core.Summary, core.Ledger, error) {
	l, err := s.Ledger(ctx, userID)
	if err != nil {
		return core.Summary{}, core.Ledger{}, err
	}
	summary, err := core.Aggregate(l)
	return summary, l, err
}
